package serialization

// TypeDescriptor names a serialized type on the wire, with an optional
// revision tag for schema evolution.
type TypeDescriptor struct {
	Name     string `json:"name"`
	Revision string `json:"revision,omitempty"`
}

// String returns the descriptor in "name (revision)" form.
func (t TypeDescriptor) String() string {
	if t.Revision == "" {
		return t.Name
	}
	return t.Name + " (" + t.Revision + ")"
}

// SerializedObject is a storage-neutral byte representation of a value
// together with the descriptor needed to reconstruct it.
type SerializedObject struct {
	Data []byte         `json:"data"`
	Type TypeDescriptor `json:"type"`
}

// IsEmpty reports whether the object carries no data and no type name.
func (o SerializedObject) IsEmpty() bool {
	return len(o.Data) == 0 && o.Type.Name == ""
}

// Serializer converts values to and from their wire representation.
// Implementations must be stateless after construction and safe for
// concurrent use; Serialize and Deserialize must be deterministic for
// identical inputs.
//
// Deserialize distinguishes two failure conditions: an unresolvable type
// descriptor surfaces as *UnknownTypeError, malformed or incompatible bytes
// surface as *DeserializationError.
type Serializer interface {
	Serialize(v any) (SerializedObject, error)
	Deserialize(obj SerializedObject) (any, error)

	// TypeOf returns the descriptor Serialize would stamp on v, without
	// serializing it.
	TypeOf(v any) TypeDescriptor
}
