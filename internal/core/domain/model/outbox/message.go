// Package outbox holds the messages stored next to business writes and relayed to
// the message broker afterwards.
package outbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"crmsync/internal/core/domain/model/kernel"
)

// Message is a serialized domain event waiting in, or relayed from, the outbox.
type Message struct {
	ID          kernel.UUID
	Name        string
	AggregateID kernel.ID
	Payload     []byte
	OccurredAt  time.Time
	PublishedAt *time.Time
}

// NewMessage serializes event. The event id becomes the message id so relaying the
// same message twice can be deduplicated downstream.
func NewMessage(event kernel.DomainEvent) (Message, error) {
	if event == nil {
		return Message{}, errors.New("outbox: nil event")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return Message{}, fmt.Errorf("outbox: encode %s: %w", event.EventName(), err)
	}

	return Message{
		ID:          event.EventID(),
		Name:        event.EventName(),
		AggregateID: event.AggregateID(),
		Payload:     payload,
		OccurredAt:  event.OccurredAt(),
	}, nil
}

func (m Message) IsPublished() bool {
	return m.PublishedAt != nil
}
