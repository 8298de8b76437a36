package contracts

import (
	"reflect"
	"time"
)

// TypeNameOf returns the default wire name for the type of v: the package
// path and type name, pointers unwrapped. A nil value yields an empty name.
func TypeNameOf(v any) string {
	if v == nil {
		return ""
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// GenericMessage is an immutable in-process Message carrying an already
// materialized payload.
type GenericMessage struct {
	id          string
	name        string
	payload     any
	payloadType string
	metadata    MetaData
}

// NewMessage creates a message with a fresh identifier, the given name and
// payload, and empty metadata.
func NewMessage(name string, payload any) *GenericMessage {
	return &GenericMessage{
		id:          NewIdentifier(),
		name:        name,
		payload:     payload,
		payloadType: TypeNameOf(payload),
		metadata:    EmptyMetaData(),
	}
}

// ID returns the message identifier.
func (m *GenericMessage) ID() string { return m.id }

// Name returns the declared message name.
func (m *GenericMessage) Name() string { return m.name }

// PayloadType returns the wire name of the payload type.
func (m *GenericMessage) PayloadType() string { return m.payloadType }

// Payload returns the payload. It never fails for a GenericMessage.
func (m *GenericMessage) Payload() (any, error) { return m.payload, nil }

// MetaData returns the message metadata. It never fails for a GenericMessage.
func (m *GenericMessage) MetaData() (MetaData, error) { return m.metadata, nil }

// WithMetaData returns a sibling message whose metadata is exactly md.
func (m *GenericMessage) WithMetaData(md MetaData) *GenericMessage {
	out := *m
	out.metadata = md.copy(0)
	return &out
}

// AndMetaData returns a sibling message whose metadata is the current
// metadata overlaid with extra. Keys from extra win on conflict.
func (m *GenericMessage) AndMetaData(extra MetaData) *GenericMessage {
	out := *m
	out.metadata = m.metadata.MergedWith(extra)
	return &out
}

// GenericCommandMessage is an immutable in-process CommandMessage.
type GenericCommandMessage struct {
	GenericMessage
}

// NewCommandMessage creates a command message with a fresh identifier.
func NewCommandMessage(name string, payload any) *GenericCommandMessage {
	return &GenericCommandMessage{GenericMessage: *NewMessage(name, payload)}
}

// WithMetaData returns a sibling command whose metadata is exactly md.
func (m *GenericCommandMessage) WithMetaData(md MetaData) *GenericCommandMessage {
	return &GenericCommandMessage{GenericMessage: *m.GenericMessage.WithMetaData(md)}
}

// AndMetaData returns a sibling command with extra merged into its metadata.
func (m *GenericCommandMessage) AndMetaData(extra MetaData) *GenericCommandMessage {
	return &GenericCommandMessage{GenericMessage: *m.GenericMessage.AndMetaData(extra)}
}

// GenericQueryMessage is an immutable in-process QueryMessage. Its response
// type is fixed at construction and shared unchanged by metadata-replacing
// operations.
type GenericQueryMessage struct {
	GenericMessage
	responseType ResponseType
}

// NewQueryMessage creates a query message with a fresh identifier and the
// given response type.
func NewQueryMessage(name string, payload any, responseType ResponseType) *GenericQueryMessage {
	return &GenericQueryMessage{
		GenericMessage: *NewMessage(name, payload),
		responseType:   responseType,
	}
}

// ResponseType returns the expected result descriptor.
func (m *GenericQueryMessage) ResponseType() (ResponseType, error) {
	return m.responseType, nil
}

// WithMetaData returns a sibling query whose metadata is exactly md.
func (m *GenericQueryMessage) WithMetaData(md MetaData) *GenericQueryMessage {
	return &GenericQueryMessage{
		GenericMessage: *m.GenericMessage.WithMetaData(md),
		responseType:   m.responseType,
	}
}

// AndMetaData returns a sibling query with extra merged into its metadata.
func (m *GenericQueryMessage) AndMetaData(extra MetaData) *GenericQueryMessage {
	return &GenericQueryMessage{
		GenericMessage: *m.GenericMessage.AndMetaData(extra),
		responseType:   m.responseType,
	}
}

// GenericEventMessage is an immutable in-process EventMessage.
type GenericEventMessage struct {
	GenericMessage
	aggregateID string
	sequence    int64
	timestamp   time.Time
}

// NewEventMessage creates an event message with a fresh identifier and the
// current time as its timestamp.
func NewEventMessage(name string, payload any, aggregateID string, sequence int64) *GenericEventMessage {
	return &GenericEventMessage{
		GenericMessage: *NewMessage(name, payload),
		aggregateID:    aggregateID,
		sequence:       sequence,
		timestamp:      time.Now().UTC(),
	}
}

// AggregateID returns the identifier of the originating aggregate.
func (m *GenericEventMessage) AggregateID() string { return m.aggregateID }

// Sequence returns the event's position within its aggregate.
func (m *GenericEventMessage) Sequence() int64 { return m.sequence }

// Timestamp returns when the event was recorded.
func (m *GenericEventMessage) Timestamp() time.Time { return m.timestamp }
