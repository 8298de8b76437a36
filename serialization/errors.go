package serialization

import "fmt"

// UnknownTypeError indicates that the local runtime has no type matching a
// wire descriptor. It is recoverable: the rest of the message stays usable.
type UnknownTypeError struct {
	Type TypeDescriptor
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("no type registered for %s", e.Type)
}

// DeserializationError indicates that bytes were present but could not be
// reconstructed as the declared type.
type DeserializationError struct {
	Type  TypeDescriptor
	Cause error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("failed to deserialize %s: %v", e.Type, e.Cause)
}

func (e *DeserializationError) Unwrap() error {
	return e.Cause
}
