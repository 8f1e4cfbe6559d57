package dispatchers_test

import (
	"context"
	"errors"
	"testing"

	"crmsync/internal/core/domain/model/delivery"
	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/domain/model/manufacturing"
	"crmsync/internal/core/domain/model/order"
	"crmsync/internal/core/domain/model/reference"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockManufacturingGateway struct{ mock.Mock }

func (m *MockManufacturingGateway) FindByOrigin(ctx context.Context, origin string) ([]*manufacturing.Order, error) {
	args := m.Called(ctx, origin)
	return args.Get(0).([]*manufacturing.Order), args.Error(1)
}
func (m *MockManufacturingGateway) Save(ctx context.Context, mo *manufacturing.Order) error {
	return m.Called(ctx, mo).Error(0)
}
func (m *MockManufacturingGateway) Confirm(ctx context.Context, mo *manufacturing.Order) error {
	if err := m.Called(ctx, mo).Error(0); err != nil {
		return err
	}
	return mo.Confirm()
}
func (m *MockManufacturingGateway) MarkDone(ctx context.Context, mo *manufacturing.Order) error {
	if err := m.Called(ctx, mo).Error(0); err != nil {
		return err
	}
	return mo.MarkDone()
}

type MockDeliveryGateway struct{ mock.Mock }

func (m *MockDeliveryGateway) FindByOrigin(ctx context.Context, origin string) ([]*delivery.Order, error) {
	args := m.Called(ctx, origin)
	return args.Get(0).([]*delivery.Order), args.Error(1)
}
func (m *MockDeliveryGateway) Save(ctx context.Context, d *delivery.Order) error {
	return m.Called(ctx, d).Error(0)
}
func (m *MockDeliveryGateway) Validate(ctx context.Context, d *delivery.Order) error {
	if err := m.Called(ctx, d).Error(0); err != nil {
		return err
	}
	return d.MarkDone()
}

type MockReferenceResolver struct{ mock.Mock }

func (m *MockReferenceResolver) Exists(_ context.Context, _ reference.Kind, _ kernel.ID) (bool, error) {
	return false, errors.New("not implemented in mock")
}
func (m *MockReferenceResolver) StatusByCode(_ context.Context, _ int) (order.Status, error) {
	return order.Status{}, errors.New("not implemented in mock")
}
func (m *MockReferenceResolver) Statuses(_ context.Context) ([]order.Status, error) {
	return nil, errors.New("not implemented in mock")
}
func (m *MockReferenceResolver) UserIDByEmail(_ context.Context, _ string) (kernel.ID, error) {
	return 0, errors.New("not implemented in mock")
}
func (m *MockReferenceResolver) Product(_ context.Context, _ kernel.ID) (reference.ProductInfo, error) {
	return reference.ProductInfo{}, errors.New("not implemented in mock")
}
func (m *MockReferenceResolver) ProductsByID(ctx context.Context, ids []kernel.ID) (map[kernel.ID]reference.ProductInfo, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[kernel.ID]reference.ProductInfo), args.Error(1)
}

func newSaleOrder(t *testing.T) *order.Order {
	t.Helper()
	status, err := order.NewStatus(4, order.CodeInProduction, "In production")
	require.NoError(t, err)

	o, err := order.NewOrder(order.Header{
		CustomerID: 10, BranchID: 11, InvoiceAddressID: 12, DeliveryAddressID: 13,
		PriceListID: 1, PaymentTermID: 2, OrderType: "standard", SalespersonID: 5,
		SalesTeamID: 3, CompanyID: 1, ShippingPolicy: "direct", ExternalFolio: "CRM-1",
	}, status)
	require.NoError(t, err)
	require.NoError(t, o.Identify(1))
	return o
}
