package commands

import (
	"context"
	"errors"

	"crmsync/internal/core/domain/services"
	"crmsync/internal/pkg/errs"
)

// ErrOrderNotFound is returned when a status update targets an unknown order.
var ErrOrderNotFound = errors.New("order not found")

// isBusinessFailure reports whether err is a refusal that keeps the writes made
// before it: a downstream rejection or a product mismatch.
func isBusinessFailure(err error) bool {
	return errors.Is(err, errs.ErrDownstreamRejected) || errors.Is(err, services.ErrProductMismatch)
}

// commitFailure commits what was written before failure and returns failure.
func commitFailure(ctx context.Context, tx TxManager, failure error) error {
	if err := tx.Commit(ctx); err != nil {
		return errors.Join(failure, err)
	}
	return failure
}
