package delivery

import (
	"errors"
	"fmt"

	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/domain/model/reference"
	"crmsync/internal/pkg/errs"
	"crmsync/internal/pkg/guard"
)

var (
	ErrOrderIsNotConstructed = errors.New("delivery Order must be created via NewOrder constructor")
	ErrOrderIsClosed         = errors.New("delivery order is closed")
	ErrNothingDone           = errors.New("delivery order has no done quantity")
)

// State is the lifecycle state of a delivery order.
type State string

const (
	Assigned State = "assigned"
	Done     State = "done"
	Cancel   State = "cancel"
)

func (s State) Validate() error {
	switch s {
	case Assigned, Done, Cancel:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("delivery state", fmt.Errorf("%q is not a valid state", string(s)))
	}
}

// Line is a product move of a delivery.
type Line struct {
	id      kernel.ID
	product reference.ProductInfo
	ordered int
	done    int
}

// NewLine builds an unsaved line with nothing done yet.
func NewLine(product reference.ProductInfo, ordered int) (Line, error) {
	if err := product.Validate(); err != nil {
		return Line{}, err
	}
	if ordered < 0 {
		return Line{}, errs.NewValueIsOutOfRangeError("ordered quantity", ordered, 0, "unbounded")
	}
	return Line{product: product, ordered: ordered}, nil
}

// RestoreLine rebuilds a persisted line.
func RestoreLine(id kernel.ID, product reference.ProductInfo, ordered, done int) (Line, error) {
	line, err := NewLine(product, ordered)
	if err != nil {
		return Line{}, err
	}
	if err = id.Validate(); err != nil {
		return Line{}, err
	}
	line.id = id
	line.done = done
	return line, nil
}

func (l Line) ID() kernel.ID                  { return l.id }
func (l Line) Product() reference.ProductInfo { return l.product }
func (l Line) Ordered() int                   { return l.ordered }
func (l Line) Done() int                      { return l.done }

// Order is an outgoing delivery whose origin is a sales order name.
type Order struct {
	id     kernel.ID
	name   string
	origin string
	state  State
	lines  []Line
	guard  guard.ConstructorGuard
}

// NewOrder creates an assigned delivery order.
func NewOrder(name, origin string, lines []Line) (*Order, error) {
	var err error
	if name == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("delivery order name"))
	}
	if origin == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("origin"))
	}
	if err != nil {
		return nil, err
	}

	return &Order{
		name:   name,
		origin: origin,
		state:  Assigned,
		lines:  append([]Line(nil), lines...),
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// RestoreOrder rebuilds a persisted delivery order.
func RestoreOrder(id kernel.ID, name, origin string, state State, lines []Line) (*Order, error) {
	d, err := NewOrder(name, origin, lines)
	if err != nil {
		return nil, err
	}
	if err = errors.Join(id.Validate(), state.Validate()); err != nil {
		return nil, err
	}
	d.id = id
	d.state = state
	return d, nil
}

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

// AssignLineIDs stores the ids persistence gave to the lines, in line order.
func (o *Order) AssignLineIDs(ids []kernel.ID) error {
	if len(ids) != len(o.lines) {
		return fmt.Errorf("got %d line ids for %d lines", len(ids), len(o.lines))
	}
	for i, id := range ids {
		if err := id.Validate(); err != nil {
			return err
		}
		o.lines[i].id = id
	}
	return nil
}

// FulfillAll sets the done quantity of every line to its ordered quantity.
func (o *Order) FulfillAll() error {
	if o.state != Assigned {
		return fmt.Errorf("%w: %s is %s", ErrOrderIsClosed, o.name, o.state)
	}
	for i := range o.lines {
		o.lines[i].done = o.lines[i].ordered
	}
	return nil
}

// MarkDone validates the delivery.
func (o *Order) MarkDone() error {
	if o.state != Assigned {
		return fmt.Errorf("%w: %s is %s", ErrOrderIsClosed, o.name, o.state)
	}

	total := 0
	for _, l := range o.lines {
		total += l.done
	}
	if total == 0 {
		return ErrNothingDone
	}

	o.state = Done
	return nil
}

func (o *Order) ID() kernel.ID  { return o.id }
func (o *Order) Name() string   { return o.name }
func (o *Order) Origin() string { return o.origin }
func (o *Order) State() State   { return o.state }

func (o *Order) Lines() []Line {
	return append([]Line(nil), o.lines...)
}
