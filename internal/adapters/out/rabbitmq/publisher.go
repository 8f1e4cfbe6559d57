// Package rabbitmq publishes outbox messages to a durable RabbitMQ queue.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"crmsync/internal/core/domain/model/outbox"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	dialAttempts = 10
	dialBackoff  = 2 * time.Second
)

// Publisher implements ports.EventPublisher. Messages go through the default
// exchange to queue, persistent, with the outbox message id as MessageId so
// consumers can drop duplicates.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	logger  *slog.Logger
}

// NewPublisher connects to url and declares queue as durable. The broker may
// still be starting, so the dial is retried a few times.
func NewPublisher(ctx context.Context, url, queue string, logger *slog.Logger) (*Publisher, error) {
	logger = logger.With("component", "rabbitmq_publisher", "queue", queue)

	var conn *amqp.Connection
	var err error
	for attempt := 1; attempt <= dialAttempts; attempt++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		logger.Warn("failed to connect to RabbitMQ, retrying", "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(dialBackoff):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare a queue: %w", err)
	}

	return &Publisher{
		conn:    conn,
		channel: ch,
		queue:   queue,
		logger:  logger,
	}, nil
}

// Publish sends msg. The event name travels as the AMQP type.
func (p *Publisher) Publish(ctx context.Context, msg outbox.Message) error {
	err := p.channel.PublishWithContext(ctx,
		"",      // exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			MessageId:    msg.ID.String(),
			Type:         msg.Name,
			Timestamp:    msg.OccurredAt,
			ContentType:  "application/json",
			Body:         msg.Payload,
			DeliveryMode: amqp.Persistent,
			Headers: amqp.Table{
				"aggregate_id": msg.AggregateID.Int64(),
			},
		})
	if err != nil {
		return fmt.Errorf("failed to publish message %s: %w", msg.ID, err)
	}

	p.logger.Debug("published message", "message_id", msg.ID.String(), "event", msg.Name)
	return nil
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	return errors.Join(p.channel.Close(), p.conn.Close())
}
