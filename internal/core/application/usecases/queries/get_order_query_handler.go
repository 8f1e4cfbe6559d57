package queries

import (
	"context"

	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderQueryHandler reads order summaries straight from the database.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for order summaries.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns the summary of the order. Unknown orders yield an
// errs.ObjectNotFoundError. Lines and history come in insertion order.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)
	id := query.OrderID().Int64()

	var header struct {
		ID            int64
		Name          string
		ExternalFolio string
		State         string
		StatusCode    int
		StatusName    string
		CustomerID    int64
		CompanyID     int64
	}
	result := db.Raw(`
		SELECT
			o.id,
			o.name,
			o.external_folio,
			o.state,
			s.code AS status_code,
			s.name AS status_name,
			o.customer_id,
			o.company_id
		FROM sale_orders o
		JOIN crm_statuses s ON s.id = o.status_id
		WHERE o.id = ?
	`, id).Scan(&header)
	if result.Error != nil {
		return GetOrderQueryResponse{}, result.Error
	}
	if result.RowsAffected == 0 {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID())
	}

	resp := GetOrderQueryResponse{
		ID:            kernel.ID(header.ID),
		Name:          header.Name,
		ExternalFolio: header.ExternalFolio,
		State:         header.State,
		StatusCode:    header.StatusCode,
		StatusName:    header.StatusName,
		CustomerID:    kernel.ID(header.CustomerID),
		CompanyID:     kernel.ID(header.CompanyID),
		Lines:         make([]OrderLineResponse, 0),
		History:       make([]StatusHistoryResponse, 0),
	}

	rows, err := db.Raw(`
		SELECT product_id, product_name, quantity
		FROM sale_order_lines
		WHERE order_id = ?
		ORDER BY id
	`, id).Rows()
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var line OrderLineResponse
		var productID int64
		if err = rows.Scan(&productID, &line.ProductName, &line.Quantity); err != nil {
			return GetOrderQueryResponse{}, err
		}
		line.ProductID = kernel.ID(productID)
		resp.Lines = append(resp.Lines, line)
	}
	if err = rows.Err(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	err = db.Raw(`
		SELECT s.code AS status_code, s.name AS status_name, h.applied_at
		FROM crm_status_history h
		JOIN crm_statuses s ON s.id = h.status_id
		WHERE h.order_id = ?
		ORDER BY h.applied_at, h.id
	`, id).Scan(&resp.History).Error
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	return resp, nil
}
