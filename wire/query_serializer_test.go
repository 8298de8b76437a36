package wire

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/glimte/relay-go/contracts"
	"github.com/glimte/relay-go/serialization"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type findOrder struct {
	OrderID string `json:"orderId"`
	Limit   int    `json:"limit"`
}

// countingSerializer wraps a real serializer and counts decode calls, so
// tests can observe when deserialization actually happens.
type countingSerializer struct {
	inner            serialization.Serializer
	serializeCalls   int32
	deserializeCalls int32
}

func (c *countingSerializer) Serialize(v any) (serialization.SerializedObject, error) {
	atomic.AddInt32(&c.serializeCalls, 1)
	return c.inner.Serialize(v)
}

func (c *countingSerializer) Deserialize(obj serialization.SerializedObject) (any, error) {
	atomic.AddInt32(&c.deserializeCalls, 1)
	return c.inner.Deserialize(obj)
}

func (c *countingSerializer) TypeOf(v any) serialization.TypeDescriptor {
	return c.inner.TypeOf(v)
}

func (c *countingSerializer) deserializeCount() int32 {
	return atomic.LoadInt32(&c.deserializeCalls)
}

func newTestSerializer(t *testing.T) *serialization.JSONSerializer {
	t.Helper()
	s := serialization.NewJSONSerializer()
	require.NoError(t, s.Registry().Register("FindOrder", findOrder{}))
	return s
}

func TestQuerySerializerSerializeQuery(t *testing.T) {
	serializer := newTestSerializer(t)
	subject := NewQuerySerializer(serializer, serializer)

	t.Run("envelope carries the message identifier and name verbatim", func(t *testing.T) {
		query := contracts.NewQueryMessage("FindOrder", findOrder{OrderID: "o-1"}, contracts.InstanceOf("Order"))

		env, err := subject.SerializeQuery(query, 42, time.Second, 1)

		require.NoError(t, err)
		assert.Equal(t, query.ID(), env.MessageID)
		assert.Equal(t, "FindOrder", env.Name)
	})

	t.Run("flow-control scalars round-trip exactly", func(t *testing.T) {
		query := contracts.NewQueryMessage("FindOrder", findOrder{}, contracts.InstanceOf("Order"))

		env, err := subject.SerializeQuery(query, 42, 1500*time.Millisecond, -7)

		require.NoError(t, err)
		assert.Equal(t, int64(42), env.NumberOfResults)
		assert.Equal(t, 1500*time.Millisecond, env.Timeout)
		assert.Equal(t, int64(-7), env.Priority)
	})

	t.Run("zero results means unbounded", func(t *testing.T) {
		query := contracts.NewQueryMessage("FindOrder", findOrder{}, contracts.InstanceOf("Order"))

		env, err := subject.SerializeQuery(query, UnboundedResults, time.Second, 0)

		require.NoError(t, err)
		assert.Equal(t, UnboundedResults, env.NumberOfResults)
	})

	t.Run("negative numberOfResults is rejected", func(t *testing.T) {
		query := contracts.NewQueryMessage("FindOrder", findOrder{}, contracts.InstanceOf("Order"))

		_, err := subject.SerializeQuery(query, -1, time.Second, 0)

		assert.Error(t, err)
	})

	t.Run("negative timeout is rejected", func(t *testing.T) {
		query := contracts.NewQueryMessage("FindOrder", findOrder{}, contracts.InstanceOf("Order"))

		_, err := subject.SerializeQuery(query, 1, -time.Second, 0)

		assert.Error(t, err)
	})

	t.Run("payload and metadata are serialized independently", func(t *testing.T) {
		payloadSerializer := &countingSerializer{inner: newTestSerializer(t)}
		metaDataSerializer := &countingSerializer{inner: newTestSerializer(t)}
		s := NewQuerySerializer(payloadSerializer, metaDataSerializer)
		query := contracts.NewQueryMessage("FindOrder", findOrder{}, contracts.InstanceOf("Order")).
			WithMetaData(contracts.MetaDataWith("k", "v"))

		_, err := s.SerializeQuery(query, 1, time.Second, 0)

		require.NoError(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&payloadSerializer.serializeCalls))
		assert.Equal(t, int32(1), atomic.LoadInt32(&metaDataSerializer.serializeCalls))
	})
}

func TestQuerySerializerRoundTrip(t *testing.T) {
	serializer := newTestSerializer(t)
	subject := NewQuerySerializer(serializer, serializer)

	original := contracts.NewQueryMessage("FindOrder", findOrder{OrderID: "o-1", Limit: 10}, contracts.ListOf("Order")).
		WithMetaData(contracts.MetaData{"tenant": "acme"})

	env, err := subject.SerializeQuery(original, 42, time.Second, 1)
	require.NoError(t, err)

	decoded := subject.DeserializeQuery(env)

	assert.Equal(t, original.ID(), decoded.ID())
	assert.Equal(t, "FindOrder", decoded.Name())

	payload, err := decoded.Payload()
	require.NoError(t, err)
	assert.Equal(t, findOrder{OrderID: "o-1", Limit: 10}, payload)

	md, err := decoded.MetaData()
	require.NoError(t, err)
	expectedMD, _ := original.MetaData()
	assert.True(t, expectedMD.Equals(md))

	rt, err := decoded.ResponseType()
	require.NoError(t, err)
	assert.Equal(t, contracts.ListOf("Order"), rt)

	assert.Equal(t, int64(42), decoded.NumberOfResults())
	assert.Equal(t, time.Second, decoded.Timeout())
	assert.Equal(t, int64(1), decoded.Priority())
}
