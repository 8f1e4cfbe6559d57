package manufacturing

import (
	"fmt"

	"crmsync/internal/pkg/errs"
)

// State is the lifecycle state of a manufacturing order.
type State string

const (
	Draft     State = "draft"
	Confirmed State = "confirmed"
	Done      State = "done"
	Cancel    State = "cancel"
)

func (s State) Validate() error {
	switch s {
	case Draft, Confirmed, Done, Cancel:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("manufacturing state", fmt.Errorf("%q is not a valid state", string(s)))
	}
}

// IsClosed reports whether the order can no longer change.
func (s State) IsClosed() bool {
	return s == Done || s == Cancel
}
