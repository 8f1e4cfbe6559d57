// Package fulfillment stores manufacturing and delivery orders and implements the
// downstream collaborators that confirm sales orders and drive manufacturing and
// deliveries. Every collaborator call runs in its own nested transaction, so a
// rejected call leaves no partial write behind.
package fulfillment

import (
	"time"

	"crmsync/internal/adapters/out/postgres/referencerepo"
	"crmsync/internal/core/domain/model/delivery"
	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/domain/model/manufacturing"
)

// ProductionDTO is a manufacturing order row.
type ProductionDTO struct {
	ID                   int64                    `gorm:"primaryKey;autoIncrement"`
	Name                 string                   `gorm:"size:32;not null"`
	Origin               string                   `gorm:"size:32;not null;index"`
	ProductID            int64                    `gorm:"not null"`
	Product              referencerepo.ProductDTO `gorm:"foreignKey:ProductID"`
	ProductQty           int                      `gorm:"not null"`
	QtyProducing         int                      `gorm:"not null"`
	State                string                   `gorm:"size:16;not null"`
	SourceLocationID     int64                    `gorm:"not null"`
	ProductionLocationID int64                    `gorm:"not null"`
	CompanyID            int64                    `gorm:"not null"`
	RawMoves             []RawMoveDTO             `gorm:"foreignKey:ProductionID"`
	CreatedAt            time.Time
}

func (ProductionDTO) TableName() string {
	return "mrp_productions"
}

// RawMoveDTO is a raw-material move consumed by a manufacturing order.
type RawMoveDTO struct {
	ID                    int64                    `gorm:"primaryKey;autoIncrement"`
	ProductionID          int64                    `gorm:"not null;index"`
	ProductID             int64                    `gorm:"not null"`
	Product               referencerepo.ProductDTO `gorm:"foreignKey:ProductID"`
	ProductUoMQty         int                      `gorm:"column:product_uom_qty;not null"`
	Quantity              int                      `gorm:"not null"`
	SourceLocationID      int64                    `gorm:"not null"`
	DestinationLocationID int64                    `gorm:"not null"`
	CompanyID             int64                    `gorm:"not null"`
}

func (RawMoveDTO) TableName() string {
	return "mrp_raw_moves"
}

// PickingDTO is a delivery order row.
type PickingDTO struct {
	ID        int64            `gorm:"primaryKey;autoIncrement"`
	Name      string           `gorm:"size:32;not null"`
	Origin    string           `gorm:"size:32;not null;index"`
	State     string           `gorm:"size:16;not null"`
	Moves     []PickingMoveDTO `gorm:"foreignKey:PickingID"`
	CreatedAt time.Time
}

func (PickingDTO) TableName() string {
	return "stock_pickings"
}

// PickingMoveDTO is a product move of a delivery order.
type PickingMoveDTO struct {
	ID            int64                    `gorm:"primaryKey;autoIncrement"`
	PickingID     int64                    `gorm:"not null;index"`
	ProductID     int64                    `gorm:"not null"`
	Product       referencerepo.ProductDTO `gorm:"foreignKey:ProductID"`
	ProductUoMQty int                      `gorm:"column:product_uom_qty;not null"`
	Quantity      int                      `gorm:"not null"`
}

func (PickingMoveDTO) TableName() string {
	return "stock_picking_moves"
}

func rawMovesFromDomain(mo *manufacturing.Order) []RawMoveDTO {
	moves := make([]RawMoveDTO, 0, len(mo.RawLines()))
	for _, l := range mo.RawLines() {
		moves = append(moves, RawMoveDTO{
			ProductionID:          mo.ID().Int64(),
			ProductID:             l.Product().ID.Int64(),
			ProductUoMQty:         l.Required(),
			Quantity:              l.Done(),
			SourceLocationID:      l.SourceLocationID().Int64(),
			DestinationLocationID: l.DestinationLocationID().Int64(),
			CompanyID:             l.CompanyID().Int64(),
		})
	}
	return moves
}

func productionFromDomain(mo *manufacturing.Order) ProductionDTO {
	return ProductionDTO{
		ID:                   mo.ID().Int64(),
		Name:                 mo.Name(),
		Origin:               mo.Origin(),
		ProductID:            mo.ProductID().Int64(),
		ProductQty:           mo.PlannedQty(),
		QtyProducing:         mo.ProducingQty(),
		State:                string(mo.State()),
		SourceLocationID:     mo.SourceLocationID().Int64(),
		ProductionLocationID: mo.ProductionLocationID().Int64(),
		CompanyID:            mo.CompanyID().Int64(),
		RawMoves:             rawMovesFromDomain(mo),
	}
}

func productionToDomain(dto ProductionDTO) (*manufacturing.Order, error) {
	lines := make([]manufacturing.RawLine, 0, len(dto.RawMoves))
	for _, m := range dto.RawMoves {
		line, err := manufacturing.RestoreRawLine(
			kernel.ID(m.ID),
			referencerepo.ProductToDomain(m.Product),
			m.ProductUoMQty,
			m.Quantity,
			kernel.ID(m.SourceLocationID),
			kernel.ID(m.DestinationLocationID),
			kernel.ID(m.CompanyID),
		)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return manufacturing.RestoreOrder(
		kernel.ID(dto.ID),
		dto.Name,
		dto.Origin,
		referencerepo.ProductToDomain(dto.Product),
		dto.ProductQty,
		dto.QtyProducing,
		manufacturing.State(dto.State),
		kernel.ID(dto.SourceLocationID),
		kernel.ID(dto.ProductionLocationID),
		kernel.ID(dto.CompanyID),
		lines,
	)
}

func pickingFromDomain(d *delivery.Order) PickingDTO {
	moves := make([]PickingMoveDTO, 0, len(d.Lines()))
	for _, l := range d.Lines() {
		moves = append(moves, PickingMoveDTO{
			ID:            l.ID().Int64(),
			PickingID:     d.ID().Int64(),
			ProductID:     l.Product().ID.Int64(),
			ProductUoMQty: l.Ordered(),
			Quantity:      l.Done(),
		})
	}

	return PickingDTO{
		ID:     d.ID().Int64(),
		Name:   d.Name(),
		Origin: d.Origin(),
		State:  string(d.State()),
		Moves:  moves,
	}
}

func pickingToDomain(dto PickingDTO) (*delivery.Order, error) {
	lines := make([]delivery.Line, 0, len(dto.Moves))
	for _, m := range dto.Moves {
		line, err := delivery.RestoreLine(kernel.ID(m.ID), referencerepo.ProductToDomain(m.Product), m.ProductUoMQty, m.Quantity)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return delivery.RestoreOrder(kernel.ID(dto.ID), dto.Name, dto.Origin, delivery.State(dto.State), lines)
}
