package commands

import (
	"errors"
	"fmt"

	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/domain/model/order"
	"crmsync/internal/pkg/errs"
	"crmsync/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrOrderLinesAreRequired = errs.NewValueIsRequiredError("order_lines")
)

// OrderLineRequest is an ordered product as received from the CRM.
type OrderLineRequest struct {
	ProductID kernel.ID
	Quantity  int
}

// CreateOrderCommand represents a validated request to create a sales order.
// Every reference it carries is resolved.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(header, status, []OrderLineRequest{{ProductID: 31, Quantity: 3}})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, time.Now)
//	id, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	header order.Header
	status order.Status
	lines  []OrderLineRequest

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new sales order.
func NewCreateOrderCommand(header order.Header, status order.Status, lines []OrderLineRequest) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setHeader(header),
		cmd.setStatus(status),
		cmd.setLines(lines),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Header() order.Header {
	return c.header
}

// Status returns the initial status of the order.
func (c CreateOrderCommand) Status() order.Status {
	return c.status
}

func (c CreateOrderCommand) Lines() []OrderLineRequest {
	return append([]OrderLineRequest(nil), c.lines...)
}

// ProductIDs returns the product ids of the lines, in line order.
func (c CreateOrderCommand) ProductIDs() []kernel.ID {
	ids := make([]kernel.ID, 0, len(c.lines))
	for _, l := range c.lines {
		ids = append(ids, l.ProductID)
	}
	return ids
}

func (c *CreateOrderCommand) setHeader(header order.Header) error {
	if err := header.Validate(); err != nil {
		return err
	}

	c.header = header
	return nil
}

func (c *CreateOrderCommand) setStatus(status order.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	c.status = status
	return nil
}

func (c *CreateOrderCommand) setLines(lines []OrderLineRequest) error {
	if len(lines) == 0 {
		return ErrOrderLinesAreRequired
	}
	for i, l := range lines {
		if err := l.ProductID.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("order_lines[%d].id", i), err)
		}
		if l.Quantity < 0 {
			return errs.NewValueIsOutOfRangeError(fmt.Sprintf("order_lines[%d].quantity", i), l.Quantity, 0, "unbounded")
		}
	}

	c.lines = append([]OrderLineRequest(nil), lines...)
	return nil
}
