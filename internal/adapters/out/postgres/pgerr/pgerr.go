// Package pgerr classifies PostgreSQL errors returned through GORM.
package pgerr

import (
	"errors"
	"fmt"

	"crmsync/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

// Translate maps lock and serialization failures to errs.ErrConcurrentUpdate.
// Other errors are returned unchanged.
func Translate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return fmt.Errorf("%w: %s", errs.ErrConcurrentUpdate, pgErr.Message)
	default:
		return err
	}
}
