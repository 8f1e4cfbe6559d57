package order

import (
	"encoding/json"
	"time"

	"crmsync/internal/core/domain/model/kernel"
)

// StatusChangedEventName routes status notifications on the broker.
const StatusChangedEventName = "order.status_changed"

// StatusChanged is raised each time a status is recorded on an order, including
// the initial status recorded after confirmation.
type StatusChanged struct {
	eventID    kernel.UUID
	orderID    kernel.ID
	orderName  string
	folio      string
	status     Status
	occurredAt time.Time
}

func newStatusChanged(o *Order, status Status, at time.Time) StatusChanged {
	return StatusChanged{
		eventID:    kernel.NewUUID(),
		orderID:    o.id,
		orderName:  o.name,
		folio:      o.header.ExternalFolio,
		status:     status,
		occurredAt: at,
	}
}

func (e StatusChanged) EventID() kernel.UUID   { return e.eventID }
func (e StatusChanged) EventName() string      { return StatusChangedEventName }
func (e StatusChanged) AggregateID() kernel.ID { return e.orderID }
func (e StatusChanged) OccurredAt() time.Time  { return e.occurredAt }
func (e StatusChanged) Status() Status         { return e.status }
func (e StatusChanged) OrderName() string      { return e.orderName }

// MarshalJSON renders the broker payload.
func (e StatusChanged) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		EventID    string    `json:"event_id"`
		EventName  string    `json:"event_name"`
		OrderID    int64     `json:"order_id"`
		OrderName  string    `json:"order_name"`
		Folio      string    `json:"external_folio"`
		StatusCode int       `json:"status_code"`
		StatusName string    `json:"status_name"`
		OccurredAt time.Time `json:"occurred_at"`
	}{
		EventID:    e.eventID.String(),
		EventName:  StatusChangedEventName,
		OrderID:    e.orderID.Int64(),
		OrderName:  e.orderName,
		Folio:      e.folio,
		StatusCode: e.status.Code(),
		StatusName: e.status.Name(),
		OccurredAt: e.occurredAt,
	})
}
