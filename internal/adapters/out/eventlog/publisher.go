// Package eventlog publishes outbox messages to the structured log. It stands in
// for the broker when none is configured.
package eventlog

import (
	"context"
	"log/slog"

	"crmsync/internal/core/domain/model/outbox"
)

// Publisher implements ports.EventPublisher by logging each message at info level.
type Publisher struct {
	logger *slog.Logger
}

func NewPublisher(logger *slog.Logger) *Publisher {
	return &Publisher{logger: logger.With("component", "event_log_publisher")}
}

func (p *Publisher) Publish(ctx context.Context, msg outbox.Message) error {
	p.logger.InfoContext(ctx, "domain event",
		"message_id", msg.ID.String(),
		"event", msg.Name,
		"aggregate_id", msg.AggregateID.Int64(),
		"occurred_at", msg.OccurredAt,
		"payload", string(msg.Payload),
	)
	return nil
}
