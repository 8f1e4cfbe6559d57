package fulfillment

import (
	"context"
	"fmt"

	"crmsync/internal/core/domain/model/delivery"
	"crmsync/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDeliveryGateway implements ports.DeliveryGateway.
type GormDeliveryGateway struct {
	db *gorm.DB
}

func NewGormDeliveryGateway(db *gorm.DB) *GormDeliveryGateway {
	return &GormDeliveryGateway{db: db}
}

// FindByOrigin returns the delivery orders of the sales order named origin, oldest
// first.
func (g *GormDeliveryGateway) FindByOrigin(ctx context.Context, origin string) ([]*delivery.Order, error) {
	var dtos []PickingDTO
	err := g.db.WithContext(ctx).
		Preload("Moves", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Moves.Product").
		Where("origin = ?", origin).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*delivery.Order, 0, len(dtos))
	for _, dto := range dtos {
		d, mapErr := pickingToDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		orders = append(orders, d)
	}
	return orders, nil
}

// Save writes the done quantity of every move.
func (g *GormDeliveryGateway) Save(ctx context.Context, d *delivery.Order) error {
	if err := d.Validate(); err != nil {
		return err
	}

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, l := range d.Lines() {
			result := tx.Model(&PickingMoveDTO{}).
				Where("id = ? AND picking_id = ?", l.ID().Int64(), d.ID().Int64()).
				Update("quantity", l.Done())
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return errs.NewObjectNotFoundError("delivery move", l.ID())
			}
		}
		return nil
	})
}

// Validate completes an assigned delivery. Closed deliveries and deliveries with
// nothing done are rejected.
func (g *GormDeliveryGateway) Validate(ctx context.Context, d *delivery.Order) error {
	if err := d.Validate(); err != nil {
		return err
	}

	op := fmt.Sprintf("validate delivery %s", d.Name())
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dto PickingDTO
		if err := tx.Select("id", "state").First(&dto, "id = ?", d.ID().Int64()).Error; err != nil {
			return err
		}
		if state := delivery.State(dto.State); state != delivery.Assigned {
			return errs.NewDownstreamRejectedError(op, fmt.Sprintf("delivery is %s", state))
		}

		if err := d.MarkDone(); err != nil {
			return errs.NewDownstreamRejectedError(op, err.Error())
		}

		return tx.Model(&PickingDTO{}).Where("id = ?", d.ID().Int64()).Update("state", string(d.State())).Error
	})
}
