package dispatchers

import (
	"context"
	"fmt"

	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/domain/model/manufacturing"
	"crmsync/internal/core/domain/model/order"
	"crmsync/internal/core/domain/model/reference"
	"crmsync/internal/core/domain/services"
	"crmsync/internal/core/ports"
	"crmsync/internal/pkg/errs"
)

// ProductionDispatcher completes the manufacturing orders of a sales order with
// the components reported by the CRM.
//
// Workflow per manufacturing order, in FindByOrigin order:
//   - replace raw lines with one consumed line per component
//   - save and confirm
//   - produce the planned quantity, save and mark done
//
// Matching happens before the first change: a manufacturing order without a
// matching request fails the dispatch with every manufacturing order untouched.
type ProductionDispatcher struct {
	gateway  ports.ManufacturingGateway
	resolver ports.ReferenceResolver
	planner  services.ProductionPlanner
}

func NewProductionDispatcher(gateway ports.ManufacturingGateway, resolver ports.ReferenceResolver) ProductionDispatcher {
	return ProductionDispatcher{
		gateway:  gateway,
		resolver: resolver,
		planner:  services.NewProductionPlanner(),
	}
}

// Dispatch completes the manufacturing orders whose origin is the name of o.
func (d ProductionDispatcher) Dispatch(ctx context.Context, o *order.Order, requests []manufacturing.ProductionRequest) error {
	if err := o.Validate(); err != nil {
		return err
	}

	mos, err := d.gateway.FindByOrigin(ctx, o.Name())
	if err != nil {
		return err
	}

	plan, err := d.planner.Plan(mos, requests)
	if err != nil {
		return err
	}
	if len(plan) == 0 {
		return nil
	}

	components, err := d.resolver.ProductsByID(ctx, componentIDs(plan))
	if err != nil {
		return err
	}

	for _, p := range plan {
		if err = d.produce(ctx, p, components, o.CompanyID()); err != nil {
			return err
		}
	}

	return nil
}

func (d ProductionDispatcher) produce(
	ctx context.Context,
	p services.Production,
	components map[kernel.ID]reference.ProductInfo,
	companyID kernel.ID,
) error {
	mo := p.Order

	lines := make([]manufacturing.RawLine, 0, len(p.Components))
	for _, c := range p.Components {
		product, ok := components[c.ProductID]
		if !ok {
			return errs.NewReferenceNotFoundError("component", c.ProductID)
		}

		line, err := manufacturing.NewConsumedLine(product, c.Quantity, mo.SourceLocationID(), mo.ProductionLocationID(), companyID)
		if err != nil {
			return err
		}
		lines = append(lines, line)
	}

	if err := mo.ReplaceRawLines(lines); err != nil {
		return errs.NewDownstreamRejectedError(fmt.Sprintf("update manufacturing order %s", mo.Name()), err.Error())
	}
	if err := d.gateway.Save(ctx, mo); err != nil {
		return err
	}
	if err := d.gateway.Confirm(ctx, mo); err != nil {
		return err
	}

	mo.ProduceAll()
	if err := d.gateway.Save(ctx, mo); err != nil {
		return err
	}

	return d.gateway.MarkDone(ctx, mo)
}

func componentIDs(plan []services.Production) []kernel.ID {
	seen := make(map[kernel.ID]struct{})
	ids := make([]kernel.ID, 0)
	for _, p := range plan {
		for _, c := range p.Components {
			if _, ok := seen[c.ProductID]; ok {
				continue
			}
			seen[c.ProductID] = struct{}{}
			ids = append(ids, c.ProductID)
		}
	}
	return ids
}
