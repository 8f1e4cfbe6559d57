// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"crmsync/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Repositories and gateways obtained from a unit of work share its transaction.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// ReferenceResolverFactory provides reference lookups within a transaction.
	ReferenceResolverFactory interface {
		ReferenceResolver() ports.ReferenceResolver
	}

	// FulfillmentFactory provides the downstream fulfillment collaborators within a
	// transaction. Each collaborator call runs in its own savepoint.
	FulfillmentFactory interface {
		OrderConfirmer() ports.OrderConfirmer
		ManufacturingGateway() ports.ManufacturingGateway
		DeliveryGateway() ports.DeliveryGateway
	}

	// OutboxRepoFactory provides access to the outbox within a transaction.
	OutboxRepoFactory interface {
		OutboxRepository() ports.OutboxRepository
	}

	// OrderUoW manages transactions for sales order operations and their
	// fulfillment side effects.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().GetForUpdate(ctx, id)
	//   // ... apply status, dispatch
	//
	//   err = uow.Commit(ctx)
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		ReferenceResolverFactory
		FulfillmentFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// OutboxUoW manages transactions for relaying and purging outbox messages.
	OutboxUoW interface {
		TxManager
		OutboxRepoFactory
	}

	// OutboxUoWFactory creates new outbox unit of work instances.
	OutboxUoWFactory interface {
		Create() OutboxUoW
	}
)
