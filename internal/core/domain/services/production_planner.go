package services

import (
	"errors"
	"fmt"
	"strings"

	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/domain/model/manufacturing"
)

// ErrProductMismatch is matched by every ProductMismatchError.
var ErrProductMismatch = errors.New("product mismatch")

// ProductMismatchError reports a manufacturing order whose product is missing from
// the production requests.
type ProductMismatchError struct {
	OrderName   string
	ProductID   kernel.ID
	ProductName string
	Supplied    []kernel.ID
}

func (e *ProductMismatchError) Error() string {
	supplied := make([]string, 0, len(e.Supplied))
	for _, id := range e.Supplied {
		supplied = append(supplied, id.String())
	}
	return fmt.Sprintf(
		"product %s (%s) of manufacturing order %s not found in products [%s]",
		e.ProductName, e.ProductID, e.OrderName, strings.Join(supplied, ", "),
	)
}

func (e *ProductMismatchError) Unwrap() error {
	return ErrProductMismatch
}

// Production pairs a manufacturing order with the components consumed for it.
type Production struct {
	Order      *manufacturing.Order
	Components []manufacturing.ComponentRequest
}

// ProductionPlanner matches manufacturing orders with production requests by
// finished product.
//
// Business rules:
//   - Every manufacturing order must match at least one request
//   - When several requests name the same product their components are concatenated
//   - Requests matching no manufacturing order are ignored
//   - Planning never modifies a manufacturing order
//
// Example usage:
//
//	plan, err := services.NewProductionPlanner().Plan(mos, requests)
//	var mismatch *services.ProductMismatchError
//	if errors.As(err, &mismatch) {
//	    // nothing was touched, report mismatch to the caller
//	}
type ProductionPlanner struct{}

func NewProductionPlanner() ProductionPlanner {
	return ProductionPlanner{}
}

// Plan returns one Production per manufacturing order, in the given order. It
// fails on the first manufacturing order without a matching request.
func (p ProductionPlanner) Plan(
	orders []*manufacturing.Order,
	requests []manufacturing.ProductionRequest,
) ([]Production, error) {
	plan := make([]Production, 0, len(orders))

	for _, mo := range orders {
		if err := mo.Validate(); err != nil {
			return nil, err
		}

		var (
			matched    bool
			components []manufacturing.ComponentRequest
		)
		for _, r := range requests {
			if r.ProductID != mo.ProductID() {
				continue
			}
			matched = true
			components = append(components, r.Components...)
		}

		if !matched {
			return nil, &ProductMismatchError{
				OrderName:   mo.Name(),
				ProductID:   mo.ProductID(),
				ProductName: mo.Product().Name,
				Supplied:    manufacturing.ProductIDs(requests),
			}
		}

		plan = append(plan, Production{Order: mo, Components: components})
	}

	return plan, nil
}
