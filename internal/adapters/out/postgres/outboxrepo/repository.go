package outboxrepo

import (
	"context"
	"time"

	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/domain/model/outbox"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOutboxRepository implements ports.OutboxRepository using GORM.
type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// Add serializes events and stores them as unpublished messages.
func (r *GormOutboxRepository) Add(ctx context.Context, events ...kernel.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	dtos := make([]MessageDTO, 0, len(events))
	for _, e := range events {
		msg, err := outbox.NewMessage(e)
		if err != nil {
			return err
		}
		dtos = append(dtos, fromDomain(msg))
	}

	return r.db.WithContext(ctx).Create(&dtos).Error
}

// GetPending locks at most limit unpublished messages, oldest first. Rows locked
// by another relay are skipped.
func (r *GormOutboxRepository) GetPending(ctx context.Context, limit int) ([]outbox.Message, error) {
	var dtos []MessageDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("published_at IS NULL").
		Order("occurred_at, id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	messages := make([]outbox.Message, 0, len(dtos))
	for _, dto := range dtos {
		m, mapErr := toDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		messages = append(messages, m)
	}
	return messages, nil
}

// MarkPublished stamps the messages with ids as published at.
func (r *GormOutboxRepository) MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	return r.db.WithContext(ctx).
		Model(&MessageDTO{}).
		Where("id IN ?", raw).
		Update("published_at", at).Error
}

// DeletePublishedBefore removes messages published before t.
func (r *GormOutboxRepository) DeletePublishedBefore(ctx context.Context, t time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("published_at IS NOT NULL AND published_at < ?", t).
		Delete(&MessageDTO{})
	return result.RowsAffected, result.Error
}
