package wire

import (
	"fmt"
	"time"

	"github.com/glimte/relay-go/contracts"
	"github.com/glimte/relay-go/serialization"
)

// QuerySerializer converts query messages to wire envelopes and back. It
// holds nothing but its two serializer handles and is safe for concurrent
// use.
type QuerySerializer struct {
	payloadSerializer  serialization.Serializer
	metaDataSerializer serialization.Serializer
}

// NewQuerySerializer creates a query serializer. Payload and metadata
// serializers are independent so the two can use different encodings.
func NewQuerySerializer(payloadSerializer, metaDataSerializer serialization.Serializer) *QuerySerializer {
	return &QuerySerializer{
		payloadSerializer:  payloadSerializer,
		metaDataSerializer: metaDataSerializer,
	}
}

// SerializeQuery builds the wire envelope for an outgoing query. The
// envelope is stamped with the message's own identifier and name, never a
// regenerated one. numberOfResults of UnboundedResults means no cap; negative
// values of numberOfResults or timeout are rejected.
func (s *QuerySerializer) SerializeQuery(q contracts.QueryMessage, numberOfResults int64, timeout time.Duration, priority int64) (*Envelope, error) {
	if numberOfResults < 0 {
		return nil, fmt.Errorf("numberOfResults must not be negative, got %d", numberOfResults)
	}
	if timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative, got %v", timeout)
	}

	responseType, err := q.ResponseType()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve response type of query %s: %w", q.ID(), err)
	}

	env, err := buildEnvelope(q, s.payloadSerializer, s.metaDataSerializer)
	if err != nil {
		return nil, err
	}
	env.ResponseType = responseType
	env.Priority = priority
	env.Timeout = timeout
	env.NumberOfResults = numberOfResults
	return env, nil
}

// DeserializeQuery wraps an incoming envelope as a lazily decoded query
// message. No deserialization happens until payload, metadata or response
// type are first accessed.
func (s *QuerySerializer) DeserializeQuery(env *Envelope) *QueryMessage {
	return newQueryMessage(env, s.payloadSerializer, s.metaDataSerializer)
}

// buildEnvelope serializes payload and metadata independently and stamps the
// envelope with the message's identifier and name.
func buildEnvelope(m contracts.Message, payloadSerializer, metaDataSerializer serialization.Serializer) (*Envelope, error) {
	payload, err := m.Payload()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve payload of message %s: %w", m.ID(), err)
	}
	serializedPayload, err := payloadSerializer.Serialize(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize payload of message %s: %w", m.ID(), err)
	}

	md, err := m.MetaData()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve metadata of message %s: %w", m.ID(), err)
	}
	serializedMetaData, err := serializeMetaData(metaDataSerializer, md)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize metadata of message %s: %w", m.ID(), err)
	}

	return &Envelope{
		MessageID: m.ID(),
		Name:      m.Name(),
		Payload:   serializedPayload,
		MetaData:  serializedMetaData,
	}, nil
}

func serializeMetaData(s serialization.Serializer, md contracts.MetaData) (serialization.SerializedObject, error) {
	if md == nil {
		md = contracts.EmptyMetaData()
	}
	return s.Serialize(md)
}

// deserializeMetaData decodes the metadata slot of an envelope. An empty
// slot yields an empty, non-nil mapping.
func deserializeMetaData(s serialization.Serializer, obj serialization.SerializedObject) (contracts.MetaData, error) {
	if obj.IsEmpty() {
		return contracts.EmptyMetaData(), nil
	}
	v, err := s.Deserialize(obj)
	if err != nil {
		return nil, err
	}
	switch md := v.(type) {
	case contracts.MetaData:
		return md, nil
	case map[string]any:
		return contracts.MetaData(md), nil
	default:
		return nil, &serialization.DeserializationError{
			Type:  obj.Type,
			Cause: fmt.Errorf("expected a metadata mapping, got %T", v),
		}
	}
}
