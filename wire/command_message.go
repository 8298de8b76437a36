package wire

import (
	"time"

	"github.com/glimte/relay-go/contracts"
	"github.com/glimte/relay-go/internal/lazy"
	"github.com/glimte/relay-go/serialization"
)

// CommandMessage is a contracts.CommandMessage backed by a wire envelope,
// with the same lazy decoding discipline as QueryMessage.
type CommandMessage struct {
	envelope *Envelope
	payload  *lazy.Cell[any]
	metaData *lazy.Cell[contracts.MetaData]
}

var _ contracts.CommandMessage = (*CommandMessage)(nil)

func newCommandMessage(env *Envelope, payloadSerializer, metaDataSerializer serialization.Serializer) *CommandMessage {
	return &CommandMessage{
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
func (m *CommandMessage) ID() string { return m.envelope.MessageID }

// Name returns the command name carried by the envelope.
func (m *CommandMessage) Name() string { return m.envelope.Name }

// PayloadType returns the wire name of the payload type without decoding the
// payload.
func (m *CommandMessage) PayloadType() string { return m.envelope.Payload.Type.Name }

// Payload deserializes the payload on first call and caches the result.
func (m *CommandMessage) Payload() (any, error) { return m.payload.Get() }

// MetaData deserializes the metadata on first call and caches the result.
func (m *CommandMessage) MetaData() (contracts.MetaData, error) { return m.metaData.Get() }

// Priority returns the envelope's priority value.
func (m *CommandMessage) Priority() int64 { return m.envelope.Priority }

// Timeout returns the envelope's timeout.
func (m *CommandMessage) Timeout() time.Duration { return m.envelope.Timeout }

// Envelope returns the backing wire record.
func (m *CommandMessage) Envelope() *Envelope { return m.envelope }

// WithMetaData returns a sibling message whose metadata is exactly md. The
// payload cache and identifier are shared unchanged.
func (m *CommandMessage) WithMetaData(md contracts.MetaData) *CommandMessage {
	return &CommandMessage{
		envelope: m.envelope,
		payload:  m.payload,
		metaData: lazy.Resolved(md.MergedWith(nil)),
	}
}

// AndMetaData returns a sibling message whose metadata is the current
// metadata overlaid with extra, keys from extra winning.
func (m *CommandMessage) AndMetaData(extra contracts.MetaData) (*CommandMessage, error) {
	current, err := m.metaData.Get()
	if err != nil {
		return nil, err
	}
	return m.WithMetaData(current.MergedWith(extra)), nil
}
