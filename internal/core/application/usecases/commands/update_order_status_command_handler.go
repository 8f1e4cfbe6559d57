package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crmsync/internal/core/application/dispatchers"
	"crmsync/internal/pkg/errs"
)

// UpdateOrderStatusCommandHandler applies a CRM status to an order and runs the
// fulfillment side effects the status carries.
//
// The order row stays locked until the transaction ends, so updates of the same
// order are applied one after the other. The status and its history entry are
// written before the side effects. A business failure of a side effect keeps them
// and is returned as is. Any other failure rolls everything back.
//
// Example:
//
//	handler := NewUpdateOrderStatusCommandHandler(uowFactory, time.Now)
//	err := handler.Handle(ctx, cmd)
//	if errors.Is(err, ErrOrderNotFound) {
//	    // unknown order
//	}
type UpdateOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	now        func() time.Time
}

// NewUpdateOrderStatusCommandHandler creates a handler for status updates. now
// stamps the history entries.
func NewUpdateOrderStatusCommandHandler(uowFactory OrderUoWFactory, now func() time.Time) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		now:        now,
	}
}

// Handle applies the status. Sending the current status again still appends a
// history entry and repeats its side effects.
func (h *UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return fmt.Errorf("%w: %s", ErrOrderNotFound, cmd.OrderID())
		}
		return err
	}

	status := cmd.Status()
	if err = o.ApplyStatus(status, h.now()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	if status.IsInProduction() {
		err = dispatchers.NewProductionDispatcher(uow.ManufacturingGateway(), uow.ReferenceResolver()).
			Dispatch(ctx, o, cmd.Products())
	}

	if err == nil && status.IsReadyToShip() {
		err = dispatchers.NewDeliveryDispatcher(uow.DeliveryGateway()).Dispatch(ctx, o)
	}

	if err != nil {
		if isBusinessFailure(err) {
			return commitFailure(ctx, uow, err)
		}
		return err
	}

	return uow.Commit(ctx)
}
