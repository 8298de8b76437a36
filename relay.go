// Copyright 2025 Relay Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package relay is the connector layer between local Command/Query/Event
// message handling and a remote broker. The Connector bundles the message
// serializers and the ingestion-side monitoring into one entry point; the
// individual packages (contracts, serialization, wire, deadline, monitoring,
// transports/rabbitmq) remain usable on their own.
package relay

import (
	"log/slog"
	"time"

	"github.com/glimte/relay-go/contracts"
	"github.com/glimte/relay-go/monitoring"
	"github.com/glimte/relay-go/serialization"
	"github.com/glimte/relay-go/wire"
)

// Connector converts outgoing messages to wire envelopes and wraps incoming
// envelopes as lazily decoded messages, reporting every ingestion to the
// configured monitor. It is stateless apart from its collaborators and safe
// for concurrent use.
type Connector struct {
	payloadSerializer  serialization.Serializer
	metaDataSerializer serialization.Serializer
	querySerializer    *wire.QuerySerializer
	commandSerializer  *wire.CommandSerializer
	monitor            monitoring.MessageMonitor
	logger             *slog.Logger
}

// ConnectorOption configures a Connector.
type ConnectorOption func(*Connector)

// WithPayloadSerializer sets the serializer used for message payloads.
func WithPayloadSerializer(s serialization.Serializer) ConnectorOption {
	return func(c *Connector) {
		c.payloadSerializer = s
	}
}

// WithMetaDataSerializer sets the serializer used for message metadata,
// independently from the payload serializer.
func WithMetaDataSerializer(s serialization.Serializer) ConnectorOption {
	return func(c *Connector) {
		c.metaDataSerializer = s
	}
}

// WithMonitor sets the monitor observing ingested messages.
func WithMonitor(m monitoring.MessageMonitor) ConnectorOption {
	return func(c *Connector) {
		c.monitor = m
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ConnectorOption {
	return func(c *Connector) {
		c.logger = logger
	}
}

// NewConnector creates a connector. Without options it serializes payloads
// and metadata with one shared JSON serializer and monitors nothing.
func NewConnector(opts ...ConnectorOption) *Connector {
	c := &Connector{
		monitor: monitoring.NoOpMessageMonitor{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.payloadSerializer == nil {
		c.payloadSerializer = serialization.NewJSONSerializer()
	}
	if c.metaDataSerializer == nil {
		c.metaDataSerializer = c.payloadSerializer
	}
	c.querySerializer = wire.NewQuerySerializer(c.payloadSerializer, c.metaDataSerializer)
	c.commandSerializer = wire.NewCommandSerializer(c.payloadSerializer, c.metaDataSerializer)
	return c
}

// QuerySerializer returns the connector's query serializer.
func (c *Connector) QuerySerializer() *wire.QuerySerializer {
	return c.querySerializer
}

// CommandSerializer returns the connector's command serializer.
func (c *Connector) CommandSerializer() *wire.CommandSerializer {
	return c.commandSerializer
}

// SerializeQuery builds the wire envelope for an outgoing query.
func (c *Connector) SerializeQuery(q contracts.QueryMessage, numberOfResults int64, timeout time.Duration, priority int64) (*wire.Envelope, error) {
	return c.querySerializer.SerializeQuery(q, numberOfResults, timeout, priority)
}

// SerializeCommand builds the wire envelope for an outgoing command.
func (c *Connector) SerializeCommand(cmd contracts.CommandMessage, timeout time.Duration, priority int64) (*wire.Envelope, error) {
	return c.commandSerializer.SerializeCommand(cmd, timeout, priority)
}

// IngestQuery wraps an incoming query envelope and reports the ingestion to
// the monitor. The returned callback reports the handling outcome.
func (c *Connector) IngestQuery(env *wire.Envelope) (*wire.QueryMessage, monitoring.MonitorCallback) {
	msg := c.querySerializer.DeserializeQuery(env)
	c.logger.Debug("query ingested", "messageId", msg.ID(), "name", msg.Name())
	return msg, c.monitor.OnMessageIngested(msg)
}

// IngestCommand wraps an incoming command envelope and reports the ingestion
// to the monitor.
func (c *Connector) IngestCommand(env *wire.Envelope) (*wire.CommandMessage, monitoring.MonitorCallback) {
	msg := c.commandSerializer.DeserializeCommand(env)
	c.logger.Debug("command ingested", "messageId", msg.ID(), "name", msg.Name())
	return msg, c.monitor.OnMessageIngested(msg)
}
