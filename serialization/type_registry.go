package serialization

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/glimte/relay-go/contracts"
)

// TypeRegistry maps wire type names to local Go types so that payloads can be
// reconstructed from their descriptors. Registrations normally happen during
// startup; lookups are safe for concurrent use.
type TypeRegistry struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
	names map[reflect.Type]string
}

// NewTypeRegistry creates a registry with contracts.MetaData pre-registered,
// so metadata always round-trips without further setup.
func NewTypeRegistry() *TypeRegistry {
	r := &TypeRegistry{
		types: make(map[string]reflect.Type),
		names: make(map[reflect.Type]string),
	}
	// Registered under its reflected name; the metadata serializer relies on
	// this entry being present.
	_ = r.RegisterType(contracts.MetaData{})
	return r
}

// Register binds a wire name to the type of v. Registering the same pair
// twice is a no-op; rebinding a name to a different type is an error.
func (r *TypeRegistry) Register(name string, v any) error {
	if name == "" {
		return fmt.Errorf("type name cannot be empty")
	}
	t, err := registrableType(v)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.types[name]; ok {
		if existing == t {
			return nil
		}
		return fmt.Errorf("type name %s already bound to %v", name, existing)
	}
	r.types[name] = t
	if _, ok := r.names[t]; !ok {
		r.names[t] = name
	}
	return nil
}

// RegisterType binds v under its default wire name (package path plus type
// name).
func (r *TypeRegistry) RegisterType(v any) error {
	name := contracts.TypeNameOf(v)
	if name == "" {
		return fmt.Errorf("cannot determine type name for %T", v)
	}
	return r.Register(name, v)
}

// Resolve returns the Go type bound to a wire name.
func (r *TypeRegistry) Resolve(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Instantiate returns a pointer to a zero value of the type bound to name.
func (r *TypeRegistry) Instantiate(name string) (any, bool) {
	t, ok := r.Resolve(name)
	if !ok {
		return nil, false
	}
	return reflect.New(t).Interface(), true
}

// NameOf returns the wire name v was registered under.
func (r *TypeRegistry) NameOf(v any) (string, bool) {
	t, err := registrableType(v)
	if err != nil {
		return "", false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.names[t]
	return name, ok
}

// IsRegistered reports whether a wire name is bound.
func (r *TypeRegistry) IsRegistered(name string) bool {
	_, ok := r.Resolve(name)
	return ok
}

// Names returns all registered wire names.
func (r *TypeRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	return names
}

func registrableType(v any) (reflect.Type, error) {
	if v == nil {
		return nil, fmt.Errorf("value cannot be nil")
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct, reflect.Map, reflect.Slice:
		return t, nil
	default:
		return nil, fmt.Errorf("type must be a struct, map or slice, got %v", t.Kind())
	}
}
