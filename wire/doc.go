// Package wire defines the envelope format exchanged with the broker and the
// serializers that map typed messages onto it.
//
// Outgoing messages pass through QuerySerializer or CommandSerializer to
// become Envelopes; incoming Envelopes are wrapped as wire.QueryMessage or
// wire.CommandMessage, which satisfy the contracts interfaces while deferring
// payload and metadata deserialization until first access.
//
// The transport that actually moves Envelopes (see transports/rabbitmq) is a
// separate concern; this package only owns the data contract.
package wire
