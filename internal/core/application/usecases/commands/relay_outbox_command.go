package commands

import (
	"errors"

	"crmsync/internal/pkg/errs"
	"crmsync/internal/pkg/guard"
)

var ErrRelayOutboxCommandIsNotConstructed = errors.New(
	"RelayOutboxCommand must be created via NewRelayOutboxCommand constructor",
)

// RelayOutboxCommand publishes a batch of pending outbox messages.
//
// Example:
//
//	cmd, _ := NewRelayOutboxCommand(100)
//	published, err := handler.Handle(ctx, cmd)
type RelayOutboxCommand struct {
	batchSize int

	guard guard.ConstructorGuard
}

// NewRelayOutboxCommand creates a relay command handling at most batchSize messages.
func NewRelayOutboxCommand(batchSize int) (RelayOutboxCommand, error) {
	if batchSize <= 0 {
		return RelayOutboxCommand{}, errs.NewValueIsOutOfRangeError("batch size", batchSize, 1, "unbounded")
	}

	return RelayOutboxCommand{
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RelayOutboxCommand) Validate() error {
	return c.guard.Validate(ErrRelayOutboxCommandIsNotConstructed)
}

func (c RelayOutboxCommand) BatchSize() int {
	return c.batchSize
}
