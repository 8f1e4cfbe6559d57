package commands

import (
	"errors"
	"fmt"

	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/domain/model/manufacturing"
	"crmsync/internal/core/domain/model/order"
	"crmsync/internal/pkg/errs"
	"crmsync/internal/pkg/guard"
)

var (
	ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
		"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
	)
	ErrProductsAreRequired = errs.NewValueIsRequiredError("products")
)

// UpdateOrderStatusCommand represents a validated status change of an order.
// Orders entering production carry the components consumed per finished product.
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.ID
	status   order.Status
	products []manufacturing.ProductionRequest

	guard guard.ConstructorGuard
}

// NewUpdateOrderStatusCommand creates a status change command. products is
// required when status is the in production status and ignored otherwise.
func NewUpdateOrderStatusCommand(
	orderID kernel.ID,
	status order.Status,
	products []manufacturing.ProductionRequest,
) (UpdateOrderStatusCommand, error) {
	cmd := UpdateOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setStatus(status),
	); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	if status.IsInProduction() {
		if err := cmd.setProducts(products); err != nil {
			return UpdateOrderStatusCommand{}, err
		}
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

func (c UpdateOrderStatusCommand) OrderID() kernel.ID {
	return c.orderID
}

func (c UpdateOrderStatusCommand) Status() order.Status {
	return c.status
}

// Products is empty unless the status is the in production status.
func (c UpdateOrderStatusCommand) Products() []manufacturing.ProductionRequest {
	return append([]manufacturing.ProductionRequest(nil), c.products...)
}

func (c *UpdateOrderStatusCommand) setOrderID(orderID kernel.ID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UpdateOrderStatusCommand) setStatus(status order.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	c.status = status
	return nil
}

func (c *UpdateOrderStatusCommand) setProducts(products []manufacturing.ProductionRequest) error {
	if len(products) == 0 {
		return ErrProductsAreRequired
	}
	for i, p := range products {
		if err := p.ProductID.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("products[%d].id", i), err)
		}
		if len(p.Components) == 0 {
			return errs.NewValueIsRequiredError(fmt.Sprintf("products[%d].components", i))
		}
		for j, comp := range p.Components {
			if err := comp.ProductID.Validate(); err != nil {
				return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("products[%d].components[%d].id", i, j), err)
			}
			if comp.Quantity <= 0 {
				return errs.NewValueIsOutOfRangeError(fmt.Sprintf("products[%d].components[%d].quantity", i, j), comp.Quantity, 1, "unbounded")
			}
		}
	}

	c.products = append([]manufacturing.ProductionRequest(nil), products...)
	return nil
}
