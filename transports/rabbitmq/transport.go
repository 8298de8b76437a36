// Package rabbitmq moves wire envelopes over RabbitMQ. It deliberately
// stays thin: one connection, one channel per publisher or consumer, no
// pooling and no reconnect policy — connection management belongs to the
// host process.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/glimte/relay-go/wire"
)

// DefaultExchange is the exchange envelopes are published to unless
// configured otherwise.
const DefaultExchange = "relay.requests"

// EnvelopePublisher publishes wire envelopes to an exchange.
type EnvelopePublisher struct {
	channel  *amqp.Channel
	exchange string
	logger   *slog.Logger
}

// PublisherOption configures an EnvelopePublisher.
type PublisherOption func(*EnvelopePublisher)

// WithExchange sets the target exchange.
func WithExchange(exchange string) PublisherOption {
	return func(p *EnvelopePublisher) {
		p.exchange = exchange
	}
}

// WithPublisherLogger sets the logger.
func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *EnvelopePublisher) {
		p.logger = logger
	}
}

// NewEnvelopePublisher opens a channel on conn and declares the target
// exchange.
func NewEnvelopePublisher(conn *amqp.Connection, opts ...PublisherOption) (*EnvelopePublisher, error) {
	channel, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	p := &EnvelopePublisher{
		channel:  channel,
		exchange: DefaultExchange,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := channel.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", p.exchange, err)
	}
	return p, nil
}

// Publish sends an envelope to the configured exchange. Envelope priority
// maps onto AMQP priority, the timeout onto per-message expiration.
func (p *EnvelopePublisher) Publish(ctx context.Context, routingKey string, env *wire.Envelope) error {
	publishing, err := buildPublishing(env)
	if err != nil {
		return err
	}
	if err := p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, publishing); err != nil {
		return fmt.Errorf("failed to publish envelope %s: %w", env.MessageID, err)
	}
	p.logger.Debug("envelope published",
		"messageId", env.MessageID,
		"name", env.Name,
		"routingKey", routingKey)
	return nil
}

// Close closes the underlying channel.
func (p *EnvelopePublisher) Close() error {
	return p.channel.Close()
}

// EnvelopeConsumer delivers incoming envelopes from a queue.
type EnvelopeConsumer struct {
	channel *amqp.Channel
	queue   string
	logger  *slog.Logger
}

// ConsumerOption configures an EnvelopeConsumer.
type ConsumerOption func(*EnvelopeConsumer)

// WithConsumerLogger sets the logger.
func WithConsumerLogger(logger *slog.Logger) ConsumerOption {
	return func(c *EnvelopeConsumer) {
		c.logger = logger
	}
}

// NewEnvelopeConsumer opens a channel on conn and declares the queue.
func NewEnvelopeConsumer(conn *amqp.Connection, queue string, opts ...ConsumerOption) (*EnvelopeConsumer, error) {
	channel, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	c := &EnvelopeConsumer{
		channel: channel,
		queue:   queue,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if _, err := channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		channel.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	return c, nil
}

// Consume delivers envelopes to handler until ctx is cancelled or the
// delivery channel closes. A handler error rejects the delivery without
// requeueing; malformed envelopes are rejected the same way.
func (c *EnvelopeConsumer) Consume(ctx context.Context, handler func(ctx context.Context, env *wire.Envelope) error) error {
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume from queue %s: %w", c.queue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return nil
			}
			env, err := decodeDelivery(delivery)
			if err != nil {
				c.logger.Error("discarding malformed envelope", "error", err)
				_ = delivery.Reject(false)
				continue
			}
			if err := handler(ctx, env); err != nil {
				c.logger.Error("envelope handler failed",
					"messageId", env.MessageID,
					"error", err)
				_ = delivery.Reject(false)
				continue
			}
			_ = delivery.Ack(false)
		}
	}
}

// Close closes the underlying channel.
func (c *EnvelopeConsumer) Close() error {
	return c.channel.Close()
}

// buildPublishing maps an envelope onto an AMQP publishing. Priority is
// clamped to the 0..255 range AMQP supports.
func buildPublishing(env *wire.Envelope) (amqp.Publishing, error) {
	body, err := json.Marshal(env)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal envelope %s: %w", env.MessageID, err)
	}

	priority := env.Priority
	if priority < 0 {
		priority = 0
	}
	if priority > 255 {
		priority = 255
	}

	publishing := amqp.Publishing{
		ContentType: "application/json",
		MessageId:   env.MessageID,
		Type:        env.Name,
		Priority:    uint8(priority),
		Body:        body,
	}
	if env.Timeout > 0 {
		publishing.Expiration = strconv.FormatInt(env.Timeout.Milliseconds(), 10)
	}
	return publishing, nil
}

func decodeDelivery(delivery amqp.Delivery) (*wire.Envelope, error) {
	var env wire.Envelope
	if err := json.Unmarshal(delivery.Body, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal envelope: %w", err)
	}
	return &env, nil
}
