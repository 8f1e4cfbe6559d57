// Package orderrepo persists sales order aggregates: the order header, its lines and
// its CRM status history.
package orderrepo

import (
	"time"

	"crmsync/internal/adapters/out/postgres/referencerepo"
	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/domain/model/order"
	"crmsync/internal/core/domain/model/reference"
)

// OrderDTO represents the database structure of a sales order header.
type OrderDTO struct {
	ID                int64  `gorm:"primaryKey;autoIncrement"`
	Name              string `gorm:"size:32;index"`
	CustomerID        int64  `gorm:"not null"`
	BranchID          int64  `gorm:"not null"`
	InvoiceAddressID  int64  `gorm:"not null"`
	DeliveryAddressID int64  `gorm:"not null"`
	PriceListID       int64  `gorm:"not null"`
	PaymentTermID     int64  `gorm:"not null"`
	OrderType         string `gorm:"size:32"`
	SalespersonID     int64  `gorm:"not null"`
	SalesTeamID       int64  `gorm:"not null"`
	CompanyID         int64  `gorm:"not null;index"`
	SignatureRequired bool
	ShippingPolicy    string `gorm:"size:32"`
	ExternalFolio     string `gorm:"size:64;index"`
	State             string `gorm:"size:16;not null"`
	StatusID          int64  `gorm:"not null"`

	Status  referencerepo.StatusDTO `gorm:"foreignKey:StatusID"`
	Lines   []LineDTO               `gorm:"foreignKey:OrderID"`
	History []HistoryDTO            `gorm:"foreignKey:OrderID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (OrderDTO) TableName() string {
	return "sale_orders"
}

// LineDTO is an order line with the product snapshot taken at creation.
type LineDTO struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	OrderID     int64  `gorm:"not null;index"`
	ProductID   int64  `gorm:"not null"`
	ProductName string `gorm:"size:255"`
	UoMID       int64  `gorm:"column:uom_id"`
	Quantity    int    `gorm:"not null"`
}

func (LineDTO) TableName() string {
	return "sale_order_lines"
}

// HistoryDTO is one applied status. Rows are only ever inserted.
type HistoryDTO struct {
	ID        int64                   `gorm:"primaryKey;autoIncrement"`
	OrderID   int64                   `gorm:"not null;index"`
	StatusID  int64                   `gorm:"not null"`
	Status    referencerepo.StatusDTO `gorm:"foreignKey:StatusID"`
	AppliedAt time.Time               `gorm:"not null"`
}

func (HistoryDTO) TableName() string {
	return "crm_status_history"
}

// fromDomain converts the header and lines of an order. History is written
// separately since it is append-only.
func fromDomain(aggregate *order.Order) OrderDTO {
	h := aggregate.Header()

	lines := make([]LineDTO, 0, len(aggregate.Lines()))
	for _, l := range aggregate.Lines() {
		lines = append(lines, LineDTO{
			ID:          l.ID().Int64(),
			OrderID:     aggregate.ID().Int64(),
			ProductID:   l.ProductID().Int64(),
			ProductName: l.Product().Name,
			UoMID:       l.Product().UoMID.Int64(),
			Quantity:    l.Quantity(),
		})
	}

	return OrderDTO{
		ID:                aggregate.ID().Int64(),
		Name:              aggregate.Name(),
		CustomerID:        h.CustomerID.Int64(),
		BranchID:          h.BranchID.Int64(),
		InvoiceAddressID:  h.InvoiceAddressID.Int64(),
		DeliveryAddressID: h.DeliveryAddressID.Int64(),
		PriceListID:       h.PriceListID.Int64(),
		PaymentTermID:     h.PaymentTermID.Int64(),
		OrderType:         h.OrderType,
		SalespersonID:     h.SalespersonID.Int64(),
		SalesTeamID:       h.SalesTeamID.Int64(),
		CompanyID:         h.CompanyID.Int64(),
		SignatureRequired: h.SignatureRequired,
		ShippingPolicy:    h.ShippingPolicy,
		ExternalFolio:     h.ExternalFolio,
		State:             string(aggregate.State()),
		StatusID:          aggregate.Status().ID().Int64(),
		Lines:             lines,
	}
}

// toDomain rebuilds an order from a header row with preloaded status, lines and
// history.
func toDomain(dto OrderDTO) (*order.Order, error) {
	header := order.Header{
		CustomerID:        kernel.ID(dto.CustomerID),
		BranchID:          kernel.ID(dto.BranchID),
		InvoiceAddressID:  kernel.ID(dto.InvoiceAddressID),
		DeliveryAddressID: kernel.ID(dto.DeliveryAddressID),
		PriceListID:       kernel.ID(dto.PriceListID),
		PaymentTermID:     kernel.ID(dto.PaymentTermID),
		OrderType:         dto.OrderType,
		SalespersonID:     kernel.ID(dto.SalespersonID),
		SalesTeamID:       kernel.ID(dto.SalesTeamID),
		CompanyID:         kernel.ID(dto.CompanyID),
		SignatureRequired: dto.SignatureRequired,
		ShippingPolicy:    dto.ShippingPolicy,
		ExternalFolio:     dto.ExternalFolio,
	}

	status, err := referencerepo.StatusToDomain(dto.Status)
	if err != nil {
		return nil, err
	}

	lines := make([]order.Line, 0, len(dto.Lines))
	for _, l := range dto.Lines {
		product := reference.ProductInfo{
			ID:    kernel.ID(l.ProductID),
			Name:  l.ProductName,
			UoMID: kernel.ID(l.UoMID),
		}
		line, lineErr := order.RestoreLine(kernel.ID(l.ID), product, l.Quantity)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, line)
	}

	history := make([]order.HistoryEntry, 0, len(dto.History))
	for _, h := range dto.History {
		s, statusErr := referencerepo.StatusToDomain(h.Status)
		if statusErr != nil {
			return nil, statusErr
		}
		entry, entryErr := order.RestoreHistoryEntry(kernel.ID(h.ID), s, h.AppliedAt)
		if entryErr != nil {
			return nil, entryErr
		}
		history = append(history, entry)
	}

	return order.RestoreOrder(kernel.ID(dto.ID), dto.Name, header, order.State(dto.State), status, lines, history)
}
