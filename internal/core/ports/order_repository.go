// Package ports defines the contracts between the application core and the
// infrastructure: persistence, reference data, fulfillment collaborators and
// messaging.
package ports

import (
	"context"

	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates, with their
// lines and status history.
type OrderRepository interface {
	// Add persists a new order with its lines. It assigns the order id and name
	// and the line ids.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the state and status of an existing order and appends its
	// unsaved history entries.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its lines and history.
	Get(ctx context.Context, id kernel.ID) (*order.Order, error)

	// GetForUpdate retrieves an order like Get and locks its row until the
	// surrounding transaction ends. Concurrent updates of the same order wait.
	GetForUpdate(ctx context.Context, id kernel.ID) (*order.Order, error)
}
