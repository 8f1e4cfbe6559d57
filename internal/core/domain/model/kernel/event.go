package kernel

import "time"

// DomainEvent is raised by an aggregate and delivered through the outbox once the
// unit of work that changed the aggregate commits.
type DomainEvent interface {
	// EventID is unique per raised event and is used as the broker message id.
	EventID() UUID

	// EventName is the routing name, e.g. "order.status_changed".
	EventName() string

	// AggregateID identifies the aggregate that raised the event.
	AggregateID() ID

	// OccurredAt is the moment the change happened.
	OccurredAt() time.Time
}
