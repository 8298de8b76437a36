package deadline

import "context"

// ScopeDescriptor is an opaque, serializable description of where a deadline
// was scheduled, typically an aggregate or process instance identity. It is
// captured at schedule time and handed back unchanged when the deadline
// fires, so the handler can resolve the original execution context.
type ScopeDescriptor interface {
	// ScopeType names the kind of execution context, e.g. "aggregate" or
	// "saga".
	ScopeType() string

	// Identifier identifies the concrete instance within that kind.
	Identifier() string
}

// GenericScopeDescriptor is a plain ScopeDescriptor value.
type GenericScopeDescriptor struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// NewScopeDescriptor creates a descriptor for the given scope type and
// instance identifier.
func NewScopeDescriptor(scopeType, id string) GenericScopeDescriptor {
	return GenericScopeDescriptor{Type: scopeType, ID: id}
}

// ScopeType returns the kind of execution context.
func (d GenericScopeDescriptor) ScopeType() string { return d.Type }

// Identifier returns the instance identifier.
func (d GenericScopeDescriptor) Identifier() string { return d.ID }

type scopeContextKey struct{}

// WithScope returns a context carrying sd as the active execution scope.
func WithScope(ctx context.Context, sd ScopeDescriptor) context.Context {
	return context.WithValue(ctx, scopeContextKey{}, sd)
}

// ScopeFromContext returns the active execution scope, if any.
func ScopeFromContext(ctx context.Context) (ScopeDescriptor, bool) {
	sd, ok := ctx.Value(scopeContextKey{}).(ScopeDescriptor)
	return sd, ok
}

// DescribeScope returns the active execution scope from ctx, falling back to
// a process-level descriptor when none was set. This is the capture point
// used by the auto-scope Schedule helpers; the core scheduling primitive
// always takes the scope explicitly.
func DescribeScope(ctx context.Context) ScopeDescriptor {
	if sd, ok := ScopeFromContext(ctx); ok {
		return sd
	}
	return GenericScopeDescriptor{Type: "process"}
}
