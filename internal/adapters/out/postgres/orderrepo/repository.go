package orderrepo

import (
	"context"
	"errors"

	"crmsync/internal/adapters/out/postgres/pgerr"
	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/domain/model/order"
	"crmsync/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockTimeout bounds how long GetForUpdate waits for a concurrent update of the
// same order.
const lockTimeout = "10s"

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its lines, then assigns the id, the name and the
// line ids. History entries recorded before Add are saved too.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if aggregate.ID().IsAssigned() {
		return order.ErrOrderAlreadyIdentified
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dto := fromDomain(aggregate)
		if err := tx.Omit("Status", "History").Create(&dto).Error; err != nil {
			return err
		}

		if err := aggregate.Identify(kernel.ID(dto.ID)); err != nil {
			return err
		}
		if err := tx.Model(&OrderDTO{}).Where("id = ?", dto.ID).Update("name", aggregate.Name()).Error; err != nil {
			return err
		}

		lineIDs := make([]kernel.ID, 0, len(dto.Lines))
		for _, l := range dto.Lines {
			lineIDs = append(lineIDs, kernel.ID(l.ID))
		}
		if err := aggregate.AssignLineIDs(lineIDs); err != nil {
			return err
		}

		if err := r.saveHistory(tx, aggregate); err != nil {
			return err
		}

		r.tracker.TrackAggregate(aggregate)
		return nil
	})
}

// Update saves the state and status of an existing order and appends its unsaved
// history entries. Lines never change once saved.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&OrderDTO{}).Where("id = ?", aggregate.ID().Int64()).Updates(map[string]any{
			"state":     string(aggregate.State()),
			"status_id": aggregate.Status().ID().Int64(),
		})
		if result.Error != nil {
			return pgerr.Translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return errs.NewObjectNotFoundError("order", aggregate.ID())
		}

		if err := r.saveHistory(tx, aggregate); err != nil {
			return err
		}

		r.tracker.TrackAggregate(aggregate)
		return nil
	})
}

func (r *GormOrderRepository) saveHistory(tx *gorm.DB, aggregate *order.Order) error {
	unsaved := aggregate.UnsavedHistory()
	if len(unsaved) == 0 {
		return nil
	}

	dtos := make([]HistoryDTO, 0, len(unsaved))
	for _, h := range unsaved {
		dtos = append(dtos, HistoryDTO{
			OrderID:   aggregate.ID().Int64(),
			StatusID:  h.Status().ID().Int64(),
			AppliedAt: h.AppliedAt(),
		})
	}
	if err := tx.Omit("Status").Create(&dtos).Error; err != nil {
		return err
	}

	ids := make([]kernel.ID, 0, len(dtos))
	for _, dto := range dtos {
		ids = append(ids, kernel.ID(dto.ID))
	}
	return aggregate.MarkHistorySaved(ids)
}

// Get retrieves an order with its lines and history.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.ID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Status").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("applied_at, id") }).
		Preload("History.Status").
		First(&dto, "id = ?", id.Int64()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetForUpdate locks the order row until the surrounding transaction ends, then
// retrieves the order like Get. Waiting longer than lockTimeout fails with
// errs.ErrConcurrentUpdate.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.ID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx)
	if err := db.Exec("SET LOCAL lock_timeout = '" + lockTimeout + "'").Error; err != nil {
		return nil, err
	}

	var locked OrderDTO
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&locked, "id = ?", id.Int64()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id)
		}
		return nil, pgerr.Translate(err)
	}

	return r.Get(ctx, id)
}
