package kernel

import (
	"fmt"
	"strconv"

	"crmsync/internal/pkg/errs"
)

// ErrIDIsNotConstructed is returned when validating the zero ID.
var ErrIDIsNotConstructed = errs.NewValueIsRequiredError("ID must be a positive integer")

// ID identifies a record of the fulfillment backend or of its reference data.
// Identifiers are assigned by the database and are always positive; the zero
// value means "not assigned yet".
type ID int64

// NewID validates and wraps a raw identifier.
func NewID(raw int64) (ID, error) {
	id := ID(raw)
	if err := id.Validate(); err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("%d is not a positive integer", raw))
	}
	return id, nil
}

// Validate returns ErrIDIsNotConstructed unless the identifier is positive.
func (id ID) Validate() error {
	if id <= 0 {
		return ErrIDIsNotConstructed
	}
	return nil
}

// Int64 returns the raw identifier.
func (id ID) Int64() int64 {
	return int64(id)
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// IsAssigned reports whether the identifier was issued by the backend.
func (id ID) IsAssigned() bool {
	return id > 0
}
