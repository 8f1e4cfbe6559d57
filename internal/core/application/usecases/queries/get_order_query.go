package queries

import (
	"errors"
	"time"

	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery retrieves the summary of one synchronized order: header, lines and
// status history.
//
// Example:
//
//	query, err := NewGetOrderQuery(42)
//	if err != nil {
//	    return err
//	}
//	summary, err := handler.Handle(ctx, query)
type GetOrderQuery struct {
	orderID kernel.ID
	guard   guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for the order with orderID.
func NewGetOrderQuery(orderID kernel.ID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.ID {
	return q.orderID
}

// GetOrderQueryResponse is the order summary.
type GetOrderQueryResponse struct {
	ID            kernel.ID
	Name          string
	ExternalFolio string
	State         string
	StatusCode    int
	StatusName    string
	CustomerID    kernel.ID
	CompanyID     kernel.ID
	Lines         []OrderLineResponse
	History       []StatusHistoryResponse
}

type OrderLineResponse struct {
	ProductID   kernel.ID
	ProductName string
	Quantity    int
}

type StatusHistoryResponse struct {
	StatusCode int
	StatusName string
	AppliedAt  time.Time
}
