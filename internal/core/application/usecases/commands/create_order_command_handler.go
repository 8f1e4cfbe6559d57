package commands

import (
	"context"
	"time"

	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/domain/model/order"
	"crmsync/internal/pkg/errs"
)

// CreateOrderCommandHandler creates a sales order with its lines, has it confirmed
// downstream and opens its status history.
//
// A downstream rejection of the confirmation keeps the saved order and lines and
// is returned as is. Any other failure rolls everything back.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, time.Now)
//	id, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrDownstreamRejected) {
//	    // the order exists but was not confirmed
//	}
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	now        func() time.Time
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
// now stamps the initial history entry.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, now func() time.Time) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		now:        now,
	}
}

// Handle processes the order creation command and returns the new order id.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (kernel.ID, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	o, err := order.NewOrder(cmd.Header(), cmd.Status())
	if err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	products, err := uow.ReferenceResolver().ProductsByID(ctx, cmd.ProductIDs())
	if err != nil {
		return 0, err
	}

	for _, l := range cmd.Lines() {
		product, ok := products[l.ProductID]
		if !ok {
			return 0, errs.NewReferenceNotFoundError("product", l.ProductID)
		}

		line, err := order.NewLine(product, l.Quantity)
		if err != nil {
			return 0, err
		}
		if err = o.AddLine(line); err != nil {
			return 0, err
		}
	}

	orderRepo := uow.OrderRepository()
	if err = orderRepo.Add(ctx, o); err != nil {
		return 0, err
	}

	if err = uow.OrderConfirmer().Confirm(ctx, o); err != nil {
		if isBusinessFailure(err) {
			return 0, commitFailure(ctx, uow, err)
		}
		return 0, err
	}

	if err = o.MarkConfirmed(); err != nil {
		return 0, err
	}
	o.RecordStatus(h.now())

	if err = orderRepo.Update(ctx, o); err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return o.ID(), nil
}
