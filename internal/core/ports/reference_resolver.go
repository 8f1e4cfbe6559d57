package ports

import (
	"context"

	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/domain/model/order"
	"crmsync/internal/core/domain/model/reference"
)

// ReferenceResolver answers existence and lookup questions about reference data.
// Lookups of unknown records return an error matching errs.ErrObjectNotFound.
type ReferenceResolver interface {
	// Exists reports whether a record of kind with id exists.
	Exists(ctx context.Context, kind reference.Kind, id kernel.ID) (bool, error)

	// StatusByCode returns the status with the given code.
	StatusByCode(ctx context.Context, code int) (order.Status, error)

	// Statuses returns every status, ordered by code.
	Statuses(ctx context.Context) ([]order.Status, error)

	// UserIDByEmail returns the id of the user whose login is email.
	UserIDByEmail(ctx context.Context, email string) (kernel.ID, error)

	// Product returns the snapshot of one product.
	Product(ctx context.Context, id kernel.ID) (reference.ProductInfo, error)

	// ProductsByID returns the snapshots of the known products among ids. Unknown
	// ids are absent from the result.
	ProductsByID(ctx context.Context, ids []kernel.ID) (map[kernel.ID]reference.ProductInfo, error)
}
