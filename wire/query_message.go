package wire

import (
	"time"

	"github.com/glimte/relay-go/contracts"
	"github.com/glimte/relay-go/internal/lazy"
	"github.com/glimte/relay-go/serialization"
)

// QueryMessage is a contracts.QueryMessage backed by a wire envelope.
// Identifier and name come straight from the envelope; payload and metadata
// are deserialized on first access and cached, so wrapping an envelope is
// free on the dispatch path.
//
// A failed deserialization is cached too: re-accessing the field returns the
// same error instead of a stale or partial value. Distinct wrappers around
// the same envelope keep independent caches unless derived from each other
// via WithMetaData or AndMetaData.
type QueryMessage struct {
	envelope *Envelope
	payload  *lazy.Cell[any]
	metaData *lazy.Cell[contracts.MetaData]
}

var _ contracts.QueryMessage = (*QueryMessage)(nil)

func newQueryMessage(env *Envelope, payloadSerializer, metaDataSerializer serialization.Serializer) *QueryMessage {
	return &QueryMessage{
		envelope: env,
		payload: lazy.New(func() (any, error) {
			return payloadSerializer.Deserialize(env.Payload)
		}),
		metaData: lazy.New(func() (contracts.MetaData, error) {
			return deserializeMetaData(metaDataSerializer, env.MetaData)
		}),
	}
}

// ID returns the envelope's message identifier. It never deserializes.
func (m *QueryMessage) ID() string { return m.envelope.MessageID }

// Name returns the query name carried by the envelope. It never
// deserializes.
func (m *QueryMessage) Name() string { return m.envelope.Name }

// PayloadType returns the wire name of the payload type without decoding the
// payload.
func (m *QueryMessage) PayloadType() string { return m.envelope.Payload.Type.Name }

// Payload deserializes the payload on first call and caches the result.
func (m *QueryMessage) Payload() (any, error) { return m.payload.Get() }

// MetaData deserializes the metadata on first call and caches the result.
// An envelope without metadata yields an empty mapping.
func (m *QueryMessage) MetaData() (contracts.MetaData, error) { return m.metaData.Get() }

// ResponseType returns the expected result descriptor. A kind the local
// runtime does not recognize is reported as ResponseKindUnknown rather than
// failing the message.
func (m *QueryMessage) ResponseType() (contracts.ResponseType, error) {
	rt := m.envelope.ResponseType
	if rt.Kind != "" && !rt.IsKnown() {
		rt.Kind = contracts.ResponseKindUnknown
	}
	return rt, nil
}

// Priority returns the envelope's priority value.
func (m *QueryMessage) Priority() int64 { return m.envelope.Priority }

// Timeout returns the envelope's timeout.
func (m *QueryMessage) Timeout() time.Duration { return m.envelope.Timeout }

// NumberOfResults returns the envelope's result cap; UnboundedResults means
// no cap.
func (m *QueryMessage) NumberOfResults() int64 { return m.envelope.NumberOfResults }

// Envelope returns the backing wire record.
func (m *QueryMessage) Envelope() *Envelope { return m.envelope }

// WithMetaData returns a sibling message whose metadata is exactly md. The
// payload cache, identifier and response type are shared unchanged.
func (m *QueryMessage) WithMetaData(md contracts.MetaData) *QueryMessage {
	return &QueryMessage{
		envelope: m.envelope,
		payload:  m.payload,
		metaData: lazy.Resolved(md.MergedWith(nil)),
	}
}

// AndMetaData returns a sibling message whose metadata is the current
// metadata overlaid with extra, keys from extra winning. It forces metadata
// deserialization if that has not happened yet.
func (m *QueryMessage) AndMetaData(extra contracts.MetaData) (*QueryMessage, error) {
	current, err := m.metaData.Get()
	if err != nil {
		return nil, err
	}
	return m.WithMetaData(current.MergedWith(extra)), nil
}
