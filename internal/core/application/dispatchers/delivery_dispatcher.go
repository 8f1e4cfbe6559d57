package dispatchers

import (
	"context"
	"fmt"

	"crmsync/internal/core/domain/model/order"
	"crmsync/internal/core/ports"
	"crmsync/internal/pkg/errs"
)

// DeliveryDispatcher fills and validates the deliveries of a sales order.
type DeliveryDispatcher struct {
	gateway ports.DeliveryGateway
}

func NewDeliveryDispatcher(gateway ports.DeliveryGateway) DeliveryDispatcher {
	return DeliveryDispatcher{gateway: gateway}
}

// Dispatch sets the done quantity of every line to the ordered quantity, saves and
// validates each delivery whose origin is the name of o. The first rejection stops
// the loop. The quantities of the rejected delivery stay saved.
func (d DeliveryDispatcher) Dispatch(ctx context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}

	deliveries, err := d.gateway.FindByOrigin(ctx, o.Name())
	if err != nil {
		return err
	}

	for _, delivery := range deliveries {
		if err = delivery.FulfillAll(); err != nil {
			return errs.NewDownstreamRejectedError(fmt.Sprintf("fill delivery %s", delivery.Name()), err.Error())
		}
		if err = d.gateway.Save(ctx, delivery); err != nil {
			return err
		}
		if err = d.gateway.Validate(ctx, delivery); err != nil {
			return err
		}
	}

	return nil
}
