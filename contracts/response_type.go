package contracts

// ResponseKind describes the cardinality of a query's expected result.
type ResponseKind string

const (
	// ResponseKindInstance expects exactly one instance of the element type.
	ResponseKindInstance ResponseKind = "instance"
	// ResponseKindOptional expects zero or one instance of the element type.
	ResponseKindOptional ResponseKind = "optional"
	// ResponseKindList expects any number of instances of the element type.
	ResponseKindList ResponseKind = "list"
	// ResponseKindUnknown marks a response type the local runtime could not
	// interpret. Messages with an unknown response type remain usable.
	ResponseKindUnknown ResponseKind = "unknown"
)

// ResponseType describes the shape of a query's expected result: a
// cardinality plus the wire name of the element type.
type ResponseType struct {
	Kind        ResponseKind `json:"kind"`
	ElementType string       `json:"elementType,omitempty"`
}

// InstanceOf returns a ResponseType expecting a single instance of the named
// element type.
func InstanceOf(elementType string) ResponseType {
	return ResponseType{Kind: ResponseKindInstance, ElementType: elementType}
}

// OptionalOf returns a ResponseType expecting zero or one instance of the
// named element type.
func OptionalOf(elementType string) ResponseType {
	return ResponseType{Kind: ResponseKindOptional, ElementType: elementType}
}

// ListOf returns a ResponseType expecting a list of the named element type.
func ListOf(elementType string) ResponseType {
	return ResponseType{Kind: ResponseKindList, ElementType: elementType}
}

// IsKnown reports whether the kind is one the local runtime understands.
func (r ResponseType) IsKnown() bool {
	switch r.Kind {
	case ResponseKindInstance, ResponseKindOptional, ResponseKindList:
		return true
	}
	return false
}
