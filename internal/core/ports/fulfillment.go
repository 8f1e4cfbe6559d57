package ports

import (
	"context"

	"crmsync/internal/core/domain/model/delivery"
	"crmsync/internal/core/domain/model/manufacturing"
	"crmsync/internal/core/domain/model/order"
)

// Fulfillment collaborators return an error matching errs.ErrDownstreamRejected when
// a business rule refuses the command. Any other error is an infrastructure failure.
// Each command is applied entirely or not at all.
type (
	// OrderConfirmer confirms a saved sales order, creating its manufacturing and
	// delivery orders.
	OrderConfirmer interface {
		Confirm(ctx context.Context, aggregate *order.Order) error
	}

	// ManufacturingGateway stores and drives manufacturing orders.
	ManufacturingGateway interface {
		// FindByOrigin returns the manufacturing orders created for the sales
		// order named origin, oldest first.
		FindByOrigin(ctx context.Context, origin string) ([]*manufacturing.Order, error)
		// Save persists quantities and replaces the raw lines.
		Save(ctx context.Context, mo *manufacturing.Order) error
		Confirm(ctx context.Context, mo *manufacturing.Order) error
		MarkDone(ctx context.Context, mo *manufacturing.Order) error
	}

	// DeliveryGateway stores and validates delivery orders.
	DeliveryGateway interface {
		// FindByOrigin returns the deliveries of the sales order named origin,
		// oldest first.
		FindByOrigin(ctx context.Context, origin string) ([]*delivery.Order, error)
		// Save persists line quantities.
		Save(ctx context.Context, d *delivery.Order) error
		Validate(ctx context.Context, d *delivery.Order) error
	}
)
