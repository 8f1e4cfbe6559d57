package manufacturing

import (
	"errors"
	"fmt"

	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/domain/model/reference"
	"crmsync/internal/pkg/errs"
	"crmsync/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when using an Order not built by NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("manufacturing Order must be created via NewOrder constructor")
	// ErrOrderIsClosed is returned when changing a done or cancelled order.
	ErrOrderIsClosed = errors.New("manufacturing order is closed")
	// ErrNoRawMaterials is returned when completing an order that consumes nothing.
	ErrNoRawMaterials = errors.New("manufacturing order has no raw materials")
	// ErrNothingProduced is returned when completing an order with a zero producing quantity.
	ErrNothingProduced = errors.New("manufacturing order has nothing to produce")
)

// Order is a manufacturing order producing one finished product for a sales order.
//
// Business rules:
//   - Origin is the name of the sales order it was created for
//   - Raw lines and quantities can change only while the order is open (draft or confirmed)
//   - Completion requires a confirmed order with raw lines and a positive producing quantity
//
// Example:
//
//	mo, _ := manufacturing.NewOrder("MO/00001", "S00001", product, 3, stock, production, company)
//	_ = mo.ReplaceRawLines(lines)
//	_ = mo.Confirm()
//	mo.ProduceAll()
//	_ = mo.MarkDone()
type Order struct {
	id                   kernel.ID
	name                 string
	origin               string
	product              reference.ProductInfo
	plannedQty           int
	producingQty         int
	state                State
	sourceLocationID     kernel.ID
	productionLocationID kernel.ID
	companyID            kernel.ID
	rawLines             []RawLine
	guard                guard.ConstructorGuard
}

// NewOrder creates a draft manufacturing order without raw lines.
func NewOrder(
	name, origin string,
	product reference.ProductInfo,
	plannedQty int,
	sourceLocationID, productionLocationID, companyID kernel.ID,
) (*Order, error) {
	mo := &Order{state: Draft, guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		mo.setName(name),
		mo.setOrigin(origin),
		mo.setProduct(product),
		mo.setPlannedQty(plannedQty),
		mo.setLocations(sourceLocationID, productionLocationID),
		companyID.Validate(),
	); err != nil {
		return nil, err
	}
	mo.companyID = companyID

	return mo, nil
}

// RestoreOrder rebuilds a persisted manufacturing order.
func RestoreOrder(
	id kernel.ID,
	name, origin string,
	product reference.ProductInfo,
	plannedQty, producingQty int,
	state State,
	sourceLocationID, productionLocationID, companyID kernel.ID,
	rawLines []RawLine,
) (*Order, error) {
	mo, err := NewOrder(name, origin, product, plannedQty, sourceLocationID, productionLocationID, companyID)
	if err != nil {
		return nil, err
	}
	if err = errors.Join(id.Validate(), state.Validate()); err != nil {
		return nil, err
	}

	mo.id = id
	mo.producingQty = producingQty
	mo.state = state
	mo.rawLines = append([]RawLine(nil), rawLines...)
	return mo, nil
}

func (o *Order) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("manufacturing order name")
	}
	o.name = name
	return nil
}

func (o *Order) setOrigin(origin string) error {
	if origin == "" {
		return errs.NewValueIsRequiredError("origin")
	}
	o.origin = origin
	return nil
}

func (o *Order) setProduct(product reference.ProductInfo) error {
	if err := product.Validate(); err != nil {
		return err
	}
	o.product = product
	return nil
}

func (o *Order) setPlannedQty(qty int) error {
	if qty <= 0 {
		return errs.NewValueIsOutOfRangeError("planned quantity", qty, 1, "unbounded")
	}
	o.plannedQty = qty
	return nil
}

func (o *Order) setLocations(source, production kernel.ID) error {
	if err := errors.Join(source.Validate(), production.Validate()); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("location", err)
	}
	o.sourceLocationID = source
	o.productionLocationID = production
	return nil
}

// Validate ensures the Order was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// Identify stores the id assigned by persistence.
func (o *Order) Identify(id kernel.ID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

// ReplaceRawLines drops the current raw lines and sets lines instead.
func (o *Order) ReplaceRawLines(lines []RawLine) error {
	if o.state.IsClosed() {
		return fmt.Errorf("%w: %s is %s", ErrOrderIsClosed, o.name, o.state)
	}
	o.rawLines = append([]RawLine(nil), lines...)
	return nil
}

// Confirm moves a draft order to confirmed. Confirming a confirmed order is a no-op.
func (o *Order) Confirm() error {
	switch o.state {
	case Draft:
		o.state = Confirmed
		return nil
	case Confirmed:
		return nil
	default:
		return fmt.Errorf("%w: %s is %s", ErrOrderIsClosed, o.name, o.state)
	}
}

// ProduceAll sets the producing quantity to the planned quantity.
func (o *Order) ProduceAll() {
	if o.state.IsClosed() {
		return
	}
	o.producingQty = o.plannedQty
}

// MarkDone completes a confirmed order.
func (o *Order) MarkDone() error {
	if o.state.IsClosed() {
		return fmt.Errorf("%w: %s is %s", ErrOrderIsClosed, o.name, o.state)
	}
	if o.state != Confirmed {
		return fmt.Errorf("manufacturing order %s must be confirmed before completion", o.name)
	}
	if len(o.rawLines) == 0 {
		return ErrNoRawMaterials
	}
	if o.producingQty <= 0 {
		return ErrNothingProduced
	}

	o.state = Done
	return nil
}

func (o *Order) ID() kernel.ID                   { return o.id }
func (o *Order) Name() string                    { return o.name }
func (o *Order) Origin() string                  { return o.origin }
func (o *Order) Product() reference.ProductInfo  { return o.product }
func (o *Order) ProductID() kernel.ID            { return o.product.ID }
func (o *Order) PlannedQty() int                 { return o.plannedQty }
func (o *Order) ProducingQty() int               { return o.producingQty }
func (o *Order) State() State                    { return o.state }
func (o *Order) SourceLocationID() kernel.ID     { return o.sourceLocationID }
func (o *Order) ProductionLocationID() kernel.ID { return o.productionLocationID }
func (o *Order) CompanyID() kernel.ID            { return o.companyID }

func (o *Order) RawLines() []RawLine {
	return append([]RawLine(nil), o.rawLines...)
}
