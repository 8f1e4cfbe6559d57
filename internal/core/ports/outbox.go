package ports

import (
	"context"
	"time"

	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/domain/model/outbox"
)

// OutboxRepository stores domain events next to the business writes that raised them.
type OutboxRepository interface {
	// Add stores events as unpublished messages.
	Add(ctx context.Context, events ...kernel.DomainEvent) error

	// GetPending returns at most limit unpublished messages, oldest first. Inside a
	// transaction the rows stay locked and are skipped by concurrent relays.
	GetPending(ctx context.Context, limit int) ([]outbox.Message, error)

	// MarkPublished stamps the messages with ids as published at.
	MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error

	// DeletePublishedBefore removes messages published before t and returns how
	// many were removed.
	DeletePublishedBefore(ctx context.Context, t time.Time) (int64, error)
}

// EventPublisher delivers an outbox message to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, msg outbox.Message) error
}
