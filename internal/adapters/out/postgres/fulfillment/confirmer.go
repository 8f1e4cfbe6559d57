package fulfillment

import (
	"context"
	"errors"
	"fmt"

	"crmsync/internal/adapters/out/postgres/referencerepo"
	"crmsync/internal/core/domain/model/delivery"
	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/domain/model/manufacturing"
	"crmsync/internal/core/domain/model/order"
	"crmsync/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	productionNameFormat = "MO/%05d"
	pickingNameFormat    = "WH/OUT/%05d"
)

// GormOrderConfirmer implements ports.OrderConfirmer. Confirming a sales order
// creates one manufacturing order per line of a manufactured product and one
// delivery order for all lines.
type GormOrderConfirmer struct {
	db *gorm.DB
}

func NewGormOrderConfirmer(db *gorm.DB) *GormOrderConfirmer {
	return &GormOrderConfirmer{db: db}
}

// Confirm rejects orders that are not draft or have no lines.
func (c *GormOrderConfirmer) Confirm(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	op := fmt.Sprintf("confirm order %s", aggregate.Name())
	if aggregate.State() != order.Draft {
		return errs.NewDownstreamRejectedError(op, fmt.Sprintf("order is %s, only draft orders can be confirmed", aggregate.State()))
	}
	if len(aggregate.Lines()) == 0 {
		return errs.NewDownstreamRejectedError(op, "order has no lines")
	}

	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var company referencerepo.CompanyDTO
		if err := tx.First(&company, "id = ?", aggregate.CompanyID().Int64()).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NewDownstreamRejectedError(op, fmt.Sprintf("company %s does not exist", aggregate.CompanyID()))
			}
			return err
		}

		moves := make([]delivery.Line, 0, len(aggregate.Lines()))
		for _, l := range aggregate.Lines() {
			if l.Product().Manufactured && l.Quantity() > 0 {
				if err := c.createProduction(tx, aggregate, l, company); err != nil {
					return err
				}
			}

			move, err := delivery.NewLine(l.Product(), l.Quantity())
			if err != nil {
				return err
			}
			moves = append(moves, move)
		}

		return c.createPicking(tx, aggregate, moves)
	})
}

func (c *GormOrderConfirmer) createProduction(tx *gorm.DB, o *order.Order, l order.Line, company referencerepo.CompanyDTO) error {
	id, err := nextID(tx, ProductionDTO{}.TableName())
	if err != nil {
		return err
	}

	mo, err := manufacturing.NewOrder(
		fmt.Sprintf(productionNameFormat, id),
		o.Name(),
		l.Product(),
		l.Quantity(),
		kernel.ID(company.StockLocationID),
		kernel.ID(company.ProductionLocationID),
		o.CompanyID(),
	)
	if err != nil {
		return err
	}
	if err = mo.Identify(id); err != nil {
		return err
	}

	dto := productionFromDomain(mo)
	return tx.Omit(clause.Associations).Create(&dto).Error
}

func (c *GormOrderConfirmer) createPicking(tx *gorm.DB, o *order.Order, moves []delivery.Line) error {
	id, err := nextID(tx, PickingDTO{}.TableName())
	if err != nil {
		return err
	}

	d, err := delivery.NewOrder(fmt.Sprintf(pickingNameFormat, id), o.Name(), moves)
	if err != nil {
		return err
	}
	if err = d.Identify(id); err != nil {
		return err
	}

	dto := pickingFromDomain(d)
	if err = tx.Omit("Moves").Create(&dto).Error; err != nil {
		return err
	}
	if len(dto.Moves) == 0 {
		return nil
	}
	return tx.Omit("Product").Create(&dto.Moves).Error
}

// nextID reserves the next id of table so the record name can be derived from it
// before the insert.
func nextID(tx *gorm.DB, table string) (kernel.ID, error) {
	var id int64
	if err := tx.Raw("SELECT nextval(pg_get_serial_sequence(?, 'id'))", table).Scan(&id).Error; err != nil {
		return 0, err
	}
	return kernel.NewID(id)
}
