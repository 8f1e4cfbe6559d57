// Package outboxrepo stores domain events in the outbox_events table, inside the
// transaction of the business write that raised them.
package outboxrepo

import (
	"time"

	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/domain/model/outbox"

	"github.com/google/uuid"
)

// MessageDTO is an outbox row. PublishedAt stays NULL until the relay delivers it.
type MessageDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name        string     `gorm:"size:64;not null"`
	AggregateID int64      `gorm:"not null;index"`
	Payload     []byte     `gorm:"type:jsonb;not null"`
	OccurredAt  time.Time  `gorm:"not null;index"`
	PublishedAt *time.Time `gorm:"index"`
}

func (MessageDTO) TableName() string {
	return "outbox_events"
}

func fromDomain(m outbox.Message) MessageDTO {
	return MessageDTO{
		ID:          m.ID.Bytes(),
		Name:        m.Name,
		AggregateID: m.AggregateID.Int64(),
		Payload:     m.Payload,
		OccurredAt:  m.OccurredAt,
		PublishedAt: m.PublishedAt,
	}
}

func toDomain(dto MessageDTO) (outbox.Message, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return outbox.Message{}, err
	}

	return outbox.Message{
		ID:          id,
		Name:        dto.Name,
		AggregateID: kernel.ID(dto.AggregateID),
		Payload:     dto.Payload,
		OccurredAt:  dto.OccurredAt,
		PublishedAt: dto.PublishedAt,
	}, nil
}
