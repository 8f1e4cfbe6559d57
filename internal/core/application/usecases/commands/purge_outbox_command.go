package commands

import (
	"errors"
	"time"

	"crmsync/internal/pkg/errs"
	"crmsync/internal/pkg/guard"
)

var ErrPurgeOutboxCommandIsNotConstructed = errors.New(
	"PurgeOutboxCommand must be created via NewPurgeOutboxCommand constructor",
)

// PurgeOutboxCommand removes messages published longer ago than the retention.
type PurgeOutboxCommand struct {
	retention time.Duration

	guard guard.ConstructorGuard
}

func NewPurgeOutboxCommand(retention time.Duration) (PurgeOutboxCommand, error) {
	if retention <= 0 {
		return PurgeOutboxCommand{}, errs.NewValueIsOutOfRangeError("retention", retention, "1ns", "unbounded")
	}

	return PurgeOutboxCommand{
		retention: retention,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c PurgeOutboxCommand) Validate() error {
	return c.guard.Validate(ErrPurgeOutboxCommandIsNotConstructed)
}

func (c PurgeOutboxCommand) Retention() time.Duration {
	return c.retention
}
