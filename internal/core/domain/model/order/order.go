package order

import (
	"errors"
	"fmt"
	"time"

	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	ErrOrderAlreadyIdentified = errors.New("order already has an identity")
	ErrOrderHasNoLines        = errors.New("order has no lines")
	ErrLinesAreFixed          = errors.New("lines cannot change once the order is saved")
)

// Header groups the attributes of an order received from the CRM. Every reference
// is an already resolved backend identifier.
type Header struct {
	CustomerID        kernel.ID
	BranchID          kernel.ID
	InvoiceAddressID  kernel.ID
	DeliveryAddressID kernel.ID
	PriceListID       kernel.ID
	PaymentTermID     kernel.ID
	OrderType         string
	SalespersonID     kernel.ID
	SalesTeamID       kernel.ID
	CompanyID         kernel.ID
	SignatureRequired bool
	ShippingPolicy    string
	ExternalFolio     string
}

// Validate checks every reference is assigned and the free-text codes are present.
func (h Header) Validate() error {
	ref := func(name string, id kernel.ID) error {
		if err := id.Validate(); err != nil {
			return errs.NewValueIsRequiredErrorWithCause(name, err)
		}
		return nil
	}
	text := func(name, value string) error {
		if value == "" {
			return errs.NewValueIsRequiredError(name)
		}
		return nil
	}

	return errors.Join(
		ref("customer", h.CustomerID),
		ref("branch", h.BranchID),
		ref("invoice_address", h.InvoiceAddressID),
		ref("delivery_address", h.DeliveryAddressID),
		ref("price_list", h.PriceListID),
		ref("payment_terms", h.PaymentTermID),
		text("order_type", h.OrderType),
		ref("salesperson", h.SalespersonID),
		ref("sales_team", h.SalesTeamID),
		ref("company", h.CompanyID),
		text("shipping_policy", h.ShippingPolicy),
		text("external_folio", h.ExternalFolio),
	)
}

// Order is a sales order synchronized from the CRM. It is the aggregate root for
// its lines and its CRM status history.
//
// Order follows these invariants:
//   - The header is complete and valid
//   - The identity (id + name) is assigned once, by persistence
//   - Lines are added only before the order is saved
//   - Status changes go through ApplyStatus or RecordStatus, which append history
type Order struct {
	id     kernel.ID
	name   string
	header Header
	state  State
	status Status

	lines   []Line
	history []HistoryEntry

	domainEvents []kernel.DomainEvent

	isConstructed bool
}

// NewOrder creates a Draft order carrying the given initial status. The status is
// recorded in the history only once the order is confirmed (see RecordStatus).
//
// Example:
//
//	o, err := order.NewOrder(header, status)
//	if err != nil {
//	    return err
//	}
//	_ = o.AddLine(line)
func NewOrder(header Header, status Status) (*Order, error) {
	if err := errors.Join(header.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	return &Order{
		header:        header,
		state:         Draft,
		status:        status,
		isConstructed: true,
	}, nil
}

// RestoreOrder rebuilds a persisted order. The last history entry, if any, must
// match the current status.
func RestoreOrder(
	id kernel.ID,
	name string,
	header Header,
	state State,
	status Status,
	lines []Line,
	history []HistoryEntry,
) (*Order, error) {
	if err := errors.Join(id.Validate(), header.Validate(), state.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	if n := len(history); n > 0 && !history[n-1].status.IsEqual(status) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("current status %s differs from latest history status %s", status, history[n-1].status),
		)
	}

	return &Order{
		id:            id,
		name:          name,
		header:        header,
		state:         state,
		status:        status,
		lines:         append([]Line(nil), lines...),
		history:       append([]HistoryEntry(nil), history...),
		isConstructed: true,
	}, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// Identify assigns the backend id and derives the order name used as origin key
// by manufacturing and delivery orders.
func (o *Order) Identify(id kernel.ID) error {
	if o.id.IsAssigned() {
		return ErrOrderAlreadyIdentified
	}
	if err := id.Validate(); err != nil {
		return err
	}

	o.id = id
	o.name = fmt.Sprintf("S%05d", id.Int64())
	return nil
}

// AddLine appends a line. Only allowed before the order is saved.
func (o *Order) AddLine(line Line) error {
	if o.id.IsAssigned() {
		return ErrLinesAreFixed
	}
	if err := line.product.Validate(); err != nil {
		return err
	}

	o.lines = append(o.lines, line)
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

// MarkConfirmed moves a Draft order to Sale.
func (o *Order) MarkConfirmed() error {
	if o.state != Draft {
		return fmt.Errorf("order %s cannot be confirmed in state %s", o.name, o.state)
	}
	if len(o.lines) == 0 {
		return ErrOrderHasNoLines
	}

	o.state = Sale
	return nil
}

// ApplyStatus sets status as current and appends a history entry stamped at.
// Applying the status the order already has still appends an entry.
func (o *Order) ApplyStatus(status Status, at time.Time) error {
	if err := status.Validate(); err != nil {
		return err
	}

	o.status = status
	o.appendHistory(at)
	return nil
}

// RecordStatus appends a history entry for the current status. Used once, after
// confirmation, to open the history.
func (o *Order) RecordStatus(at time.Time) {
	o.appendHistory(at)
}

func (o *Order) appendHistory(at time.Time) {
	o.history = append(o.history, HistoryEntry{status: o.status, appliedAt: at})
	o.domainEvents = append(o.domainEvents, newStatusChanged(o, o.status, at))
}

// UnsavedHistory returns the entries appended since the order was loaded.
func (o *Order) UnsavedHistory() []HistoryEntry {
	unsaved := make([]HistoryEntry, 0)
	for _, h := range o.history {
		if !h.IsSaved() {
			unsaved = append(unsaved, h)
		}
	}
	return unsaved
}

// MarkHistorySaved assigns ids to the unsaved entries, oldest first.
func (o *Order) MarkHistorySaved(ids []kernel.ID) error {
	next := 0
	for i := range o.history {
		if o.history[i].IsSaved() {
			continue
		}
		if next >= len(ids) {
			return fmt.Errorf("missing id for history entry %d", i)
		}
		if err := ids[next].Validate(); err != nil {
			return err
		}
		o.history[i].id = ids[next]
		next++
	}
	if next != len(ids) {
		return fmt.Errorf("got %d history ids for %d unsaved entries", len(ids), next)
	}
	return nil
}

// LatestHistory returns the most recent entry, if any.
func (o *Order) LatestHistory() (HistoryEntry, bool) {
	if len(o.history) == 0 {
		return HistoryEntry{}, false
	}
	return o.history[len(o.history)-1], true
}

// DomainEvents returns the events raised since the last ClearDomainEvents.
func (o *Order) DomainEvents() []kernel.DomainEvent {
	return append([]kernel.DomainEvent(nil), o.domainEvents...)
}

// ClearDomainEvents drops the raised events once they are stored in the outbox.
func (o *Order) ClearDomainEvents() {
	o.domainEvents = nil
}

func (o *Order) ID() kernel.ID {
	return o.id
}

// Name is the origin key shared with manufacturing and delivery orders.
func (o *Order) Name() string {
	return o.name
}

func (o *Order) Header() Header {
	return o.header
}

func (o *Order) CompanyID() kernel.ID {
	return o.header.CompanyID
}

func (o *Order) State() State {
	return o.state
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) Lines() []Line {
	return append([]Line(nil), o.lines...)
}

func (o *Order) History() []HistoryEntry {
	return append([]HistoryEntry(nil), o.history...)
}
