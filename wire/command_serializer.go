package wire

import (
	"fmt"
	"time"

	"github.com/glimte/relay-go/contracts"
	"github.com/glimte/relay-go/serialization"
)

// CommandSerializer converts command messages to wire envelopes and back.
// Like QuerySerializer it is stateless and safe for concurrent use.
type CommandSerializer struct {
	payloadSerializer  serialization.Serializer
	metaDataSerializer serialization.Serializer
}

// NewCommandSerializer creates a command serializer.
func NewCommandSerializer(payloadSerializer, metaDataSerializer serialization.Serializer) *CommandSerializer {
	return &CommandSerializer{
		payloadSerializer:  payloadSerializer,
		metaDataSerializer: metaDataSerializer,
	}
}

// SerializeCommand builds the wire envelope for an outgoing command.
func (s *CommandSerializer) SerializeCommand(c contracts.CommandMessage, timeout time.Duration, priority int64) (*Envelope, error) {
	if timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative, got %v", timeout)
	}
	env, err := buildEnvelope(c, s.payloadSerializer, s.metaDataSerializer)
	if err != nil {
		return nil, err
	}
	env.Priority = priority
	env.Timeout = timeout
	return env, nil
}

// DeserializeCommand wraps an incoming envelope as a lazily decoded command
// message.
func (s *CommandSerializer) DeserializeCommand(env *Envelope) *CommandMessage {
	return newCommandMessage(env, s.payloadSerializer, s.metaDataSerializer)
}
