package serialization

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/glimte/relay-go/contracts"
)

// JSONSerializer is the default Serializer implementation, encoding values as
// JSON and resolving wire names through a TypeRegistry.
type JSONSerializer struct {
	registry *TypeRegistry
	revision string
	indent   bool
}

// JSONSerializerOption configures a JSONSerializer.
type JSONSerializerOption func(*JSONSerializer)

// WithRegistry sets the type registry used to resolve wire names.
func WithRegistry(registry *TypeRegistry) JSONSerializerOption {
	return func(s *JSONSerializer) {
		s.registry = registry
	}
}

// WithRevision stamps all produced descriptors with a revision tag.
func WithRevision(revision string) JSONSerializerOption {
	return func(s *JSONSerializer) {
		s.revision = revision
	}
}

// WithIndent enables indented output, for debugging only.
func WithIndent(indent bool) JSONSerializerOption {
	return func(s *JSONSerializer) {
		s.indent = indent
	}
}

// NewJSONSerializer creates a JSON serializer. Without options it uses a
// fresh registry that only knows contracts.MetaData.
func NewJSONSerializer(opts ...JSONSerializerOption) *JSONSerializer {
	s := &JSONSerializer{
		registry: NewTypeRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the serializer's type registry, so callers can register
// payload types after construction.
func (s *JSONSerializer) Registry() *TypeRegistry {
	return s.registry
}

// Serialize encodes v as JSON and stamps it with its descriptor.
func (s *JSONSerializer) Serialize(v any) (SerializedObject, error) {
	if v == nil {
		return SerializedObject{}, fmt.Errorf("value cannot be nil")
	}
	data, err := s.marshal(v)
	if err != nil {
		return SerializedObject{}, fmt.Errorf("failed to serialize %T: %w", v, err)
	}
	return SerializedObject{Data: data, Type: s.TypeOf(v)}, nil
}

// Deserialize reconstructs a value from its wire representation. The result
// is a value of the registered type, not a pointer to it.
func (s *JSONSerializer) Deserialize(obj SerializedObject) (any, error) {
	t, ok := s.registry.Resolve(obj.Type.Name)
	if !ok {
		return nil, &UnknownTypeError{Type: obj.Type}
	}
	instance := reflect.New(t)
	if err := json.Unmarshal(obj.Data, instance.Interface()); err != nil {
		return nil, &DeserializationError{Type: obj.Type, Cause: err}
	}
	return instance.Elem().Interface(), nil
}

// TypeOf returns the descriptor Serialize would stamp on v: the registered
// wire name if there is one, the reflected name otherwise.
func (s *JSONSerializer) TypeOf(v any) TypeDescriptor {
	name, ok := s.registry.NameOf(v)
	if !ok {
		name = contracts.TypeNameOf(v)
	}
	return TypeDescriptor{Name: name, Revision: s.revision}
}

func (s *JSONSerializer) marshal(v any) ([]byte, error) {
	if s.indent {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
