package wire

import (
	"time"

	"github.com/glimte/relay-go/contracts"
	"github.com/glimte/relay-go/serialization"
)

// UnboundedResults is the sentinel for "no limit on the number of results".
// Zero and "unbounded" are deliberately the same value; the broker owns any
// finer distinction.
const UnboundedResults int64 = 0

// Envelope is the flat wire record for one query or command request. It is
// produced once by a serializer, never mutated afterwards, and safe to hand
// across goroutines and processes.
//
// Payload and metadata are serialized independently so that a metadata-only
// change never re-serializes the payload.
type Envelope struct {
	// MessageID is the originating message's identifier, carried verbatim.
	MessageID string `json:"messageId"`

	// Name is the command or query name as known to the broker.
	Name string `json:"name"`

	Payload  serialization.SerializedObject `json:"payload"`
	MetaData serialization.SerializedObject `json:"metaData"`

	// ResponseType is only set for query requests.
	ResponseType contracts.ResponseType `json:"responseType,omitempty"`

	// Priority orders requests at the broker; higher values are served
	// first. The value round-trips exactly, the ordering policy is the
	// broker's.
	Priority int64 `json:"priority"`

	// Timeout bounds how long the broker may hold the request. Encoded in
	// nanoseconds on the wire.
	Timeout time.Duration `json:"timeout"`

	// NumberOfResults caps the result stream; UnboundedResults means no cap.
	NumberOfResults int64 `json:"numberOfResults"`
}
