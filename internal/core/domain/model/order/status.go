package order

import (
	"errors"
	"fmt"

	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/pkg/errs"
	"crmsync/internal/pkg/guard"
)

// Status codes carrying fulfillment side effects.
const (
	CodeInProduction = 4
	CodeReadyToShip  = 6
)

var ErrStatusIsNotConstructed = errors.New("Status must be created via NewStatus constructor")

// Status is a CRM status from reference data. The set of codes is open: any code
// may follow any other, only CodeInProduction and CodeReadyToShip trigger work downstream.
type Status struct {
	id    kernel.ID
	code  int
	name  string
	guard guard.ConstructorGuard
}

// NewStatus builds a status from its reference record.
func NewStatus(id kernel.ID, code int, name string) (Status, error) {
	if err := id.Validate(); err != nil {
		return Status{}, err
	}
	if code <= 0 {
		return Status{}, errs.NewValueIsInvalidErrorWithCause("status code", fmt.Errorf("%d is not a positive code", code))
	}

	return Status{id: id, code: code, name: name, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the status was created through NewStatus.
func (s Status) Validate() error {
	return s.guard.Validate(ErrStatusIsNotConstructed)
}

func (s Status) ID() kernel.ID {
	return s.id
}

func (s Status) Code() int {
	return s.code
}

func (s Status) Name() string {
	return s.name
}

// IsInProduction reports whether applying the status completes manufacturing orders.
func (s Status) IsInProduction() bool {
	return s.code == CodeInProduction
}

// IsReadyToShip reports whether applying the status validates deliveries.
func (s Status) IsReadyToShip() bool {
	return s.code == CodeReadyToShip
}

// IsEqual compares statuses by reference id.
func (s Status) IsEqual(other Status) bool {
	return s.id == other.id
}

func (s Status) String() string {
	return fmt.Sprintf("%d %s", s.code, s.name)
}

// State is the sales state of the order in the fulfillment backend.
type State string

const (
	Draft  State = "draft"
	Sale   State = "sale"
	Cancel State = "cancel"
)

func (s State) Validate() error {
	switch s {
	case Draft, Sale, Cancel:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("state", fmt.Errorf("%q is not a valid order state", string(s)))
	}
}
