package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// It provides transaction control and tracks aggregate changes: domain events of
// tracked aggregates are stored in the outbox on Commit.
// Client code must explicitly manage transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit stores pending domain events and commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Calling it after Commit is a no-op.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	ReferenceResolver() ReferenceResolver
	OrderConfirmer() OrderConfirmer
	ManufacturingGateway() ManufacturingGateway
	DeliveryGateway() DeliveryGateway
	OutboxRepository() OutboxRepository
}
