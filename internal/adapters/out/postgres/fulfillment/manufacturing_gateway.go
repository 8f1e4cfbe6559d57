package fulfillment

import (
	"context"
	"fmt"

	"crmsync/internal/core/domain/model/manufacturing"
	"crmsync/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormManufacturingGateway implements ports.ManufacturingGateway.
type GormManufacturingGateway struct {
	db *gorm.DB
}

func NewGormManufacturingGateway(db *gorm.DB) *GormManufacturingGateway {
	return &GormManufacturingGateway{db: db}
}

// FindByOrigin returns the manufacturing orders created for the sales order named
// origin, oldest first.
func (g *GormManufacturingGateway) FindByOrigin(ctx context.Context, origin string) ([]*manufacturing.Order, error) {
	var dtos []ProductionDTO
	err := g.db.WithContext(ctx).
		Preload("Product").
		Preload("RawMoves", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("RawMoves.Product").
		Where("origin = ?", origin).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*manufacturing.Order, 0, len(dtos))
	for _, dto := range dtos {
		mo, mapErr := productionToDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		orders = append(orders, mo)
	}
	return orders, nil
}

// Save writes the producing quantity and replaces the raw moves. Closed orders
// are rejected.
func (g *GormManufacturingGateway) Save(ctx context.Context, mo *manufacturing.Order) error {
	if err := mo.Validate(); err != nil {
		return err
	}

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := g.ensureOpen(tx, mo, "update"); err != nil {
			return err
		}

		if err := tx.Model(&ProductionDTO{}).Where("id = ?", mo.ID().Int64()).
			Update("qty_producing", mo.ProducingQty()).Error; err != nil {
			return err
		}

		if err := tx.Where("production_id = ?", mo.ID().Int64()).Delete(&RawMoveDTO{}).Error; err != nil {
			return err
		}
		moves := rawMovesFromDomain(mo)
		if len(moves) == 0 {
			return nil
		}
		return tx.Omit("Product").Create(&moves).Error
	})
}

// Confirm moves a draft manufacturing order to confirmed.
func (g *GormManufacturingGateway) Confirm(ctx context.Context, mo *manufacturing.Order) error {
	if err := mo.Validate(); err != nil {
		return err
	}

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := g.ensureOpen(tx, mo, "confirm"); err != nil {
			return err
		}
		if err := mo.Confirm(); err != nil {
			return errs.NewDownstreamRejectedError(operation("confirm", mo), err.Error())
		}
		return g.writeState(tx, mo)
	})
}

// MarkDone completes a confirmed manufacturing order. Orders without raw moves or
// with nothing producing are rejected.
func (g *GormManufacturingGateway) MarkDone(ctx context.Context, mo *manufacturing.Order) error {
	if err := mo.Validate(); err != nil {
		return err
	}

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := g.ensureOpen(tx, mo, "mark done"); err != nil {
			return err
		}
		if err := mo.MarkDone(); err != nil {
			return errs.NewDownstreamRejectedError(operation("mark done", mo), err.Error())
		}
		return g.writeState(tx, mo)
	})
}

// ensureOpen rejects the call when the stored order is already closed, whatever
// the in-memory copy says.
func (g *GormManufacturingGateway) ensureOpen(tx *gorm.DB, mo *manufacturing.Order, action string) error {
	var dto ProductionDTO
	if err := tx.Select("id", "state").First(&dto, "id = ?", mo.ID().Int64()).Error; err != nil {
		return err
	}
	if state := manufacturing.State(dto.State); state.IsClosed() {
		return errs.NewDownstreamRejectedError(operation(action, mo), fmt.Sprintf("order is %s", state))
	}
	return nil
}

func (g *GormManufacturingGateway) writeState(tx *gorm.DB, mo *manufacturing.Order) error {
	return tx.Model(&ProductionDTO{}).Where("id = ?", mo.ID().Int64()).Updates(map[string]any{
		"state":         string(mo.State()),
		"qty_producing": mo.ProducingQty(),
	}).Error
}

func operation(action string, mo *manufacturing.Order) string {
	return fmt.Sprintf("%s manufacturing order %s", action, mo.Name())
}
