package contracts

import (
	"github.com/google/uuid"
)

// Message is the base contract for all messages moving through the connector.
// Implementations are immutable: operations that change metadata return a new
// Message instance instead of mutating the receiver.
//
// Payload and MetaData return errors because wire-backed implementations
// deserialize on first access; locally constructed messages never fail.
type Message interface {
	// ID returns the globally unique message identifier.
	ID() string

	// Name returns the declared name of the message (the command or query
	// name as known to the broker).
	Name() string

	// PayloadType returns the wire name of the payload type. It never
	// triggers deserialization.
	PayloadType() string

	// Payload returns the application-level content of the message.
	Payload() (any, error)

	// MetaData returns the metadata attached to the message. Messages
	// without metadata return an empty, non-nil MetaData.
	MetaData() (MetaData, error)
}

// CommandMessage represents an instruction to perform an action.
type CommandMessage interface {
	Message
}

// QueryMessage represents a request for information together with a
// description of the expected result shape. The response type is fixed at
// construction and survives metadata replacement.
type QueryMessage interface {
	Message

	// ResponseType returns the descriptor of the expected query result.
	ResponseType() (ResponseType, error)
}

// EventMessage represents a notification that something has happened.
type EventMessage interface {
	Message

	// AggregateID identifies the aggregate the event originated from.
	AggregateID() string

	// Sequence returns the position of the event within its aggregate.
	Sequence() int64
}

// IdentifierGenerator produces globally unique message identifiers.
type IdentifierGenerator func() string

// NewIdentifier is the process-wide identifier generator. It may be replaced
// during startup, before any messages are constructed.
var NewIdentifier IdentifierGenerator = func() string {
	return uuid.New().String()
}
