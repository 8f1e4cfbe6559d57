package commands_test

import (
	"context"
	"testing"
	"time"

	"crmsync/internal/core/application/usecases/commands"
	"crmsync/internal/core/domain/model/delivery"
	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/domain/model/manufacturing"
	"crmsync/internal/core/domain/model/order"
	"crmsync/internal/core/domain/model/outbox"
	"crmsync/internal/core/domain/model/reference"
	"crmsync/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}
func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}
func (m *MockOrderRepository) Get(ctx context.Context, id kernel.ID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}
func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.ID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockReferenceResolver struct{ mock.Mock }

func (m *MockReferenceResolver) Exists(ctx context.Context, kind reference.Kind, id kernel.ID) (bool, error) {
	args := m.Called(ctx, kind, id)
	return args.Bool(0), args.Error(1)
}
func (m *MockReferenceResolver) StatusByCode(ctx context.Context, code int) (order.Status, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(order.Status), args.Error(1)
}
func (m *MockReferenceResolver) Statuses(ctx context.Context) ([]order.Status, error) {
	args := m.Called(ctx)
	return args.Get(0).([]order.Status), args.Error(1)
}
func (m *MockReferenceResolver) UserIDByEmail(ctx context.Context, email string) (kernel.ID, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(kernel.ID), args.Error(1)
}
func (m *MockReferenceResolver) Product(ctx context.Context, id kernel.ID) (reference.ProductInfo, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(reference.ProductInfo), args.Error(1)
}
func (m *MockReferenceResolver) ProductsByID(ctx context.Context, ids []kernel.ID) (map[kernel.ID]reference.ProductInfo, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[kernel.ID]reference.ProductInfo), args.Error(1)
}

type MockOrderConfirmer struct{ mock.Mock }

func (m *MockOrderConfirmer) Confirm(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

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
	return m.Called(ctx, d).Error(0)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockOrderUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockOrderUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}
func (m *MockOrderUoW) ReferenceResolver() ports.ReferenceResolver {
	return m.Called().Get(0).(ports.ReferenceResolver)
}
func (m *MockOrderUoW) OrderConfirmer() ports.OrderConfirmer {
	return m.Called().Get(0).(ports.OrderConfirmer)
}
func (m *MockOrderUoW) ManufacturingGateway() ports.ManufacturingGateway {
	return m.Called().Get(0).(ports.ManufacturingGateway)
}
func (m *MockOrderUoW) DeliveryGateway() ports.DeliveryGateway {
	return m.Called().Get(0).(ports.DeliveryGateway)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	return m.Called().Get(0).(commands.OrderUoW)
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) Add(ctx context.Context, events ...kernel.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}
func (m *MockOutboxRepository) GetPending(ctx context.Context, limit int) ([]outbox.Message, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]outbox.Message), args.Error(1)
}
func (m *MockOutboxRepository) MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error {
	return m.Called(ctx, ids, at).Error(0)
}
func (m *MockOutboxRepository) DeletePublishedBefore(ctx context.Context, t time.Time) (int64, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(int64), args.Error(1)
}

type MockOutboxUoW struct{ mock.Mock }

func (m *MockOutboxUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockOutboxUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockOutboxUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockOutboxUoW) OutboxRepository() ports.OutboxRepository {
	return m.Called().Get(0).(ports.OutboxRepository)
}

type MockOutboxUoWFactory struct{ mock.Mock }

func (m *MockOutboxUoWFactory) Create() commands.OutboxUoW {
	return m.Called().Get(0).(commands.OutboxUoW)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, msg outbox.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func validHeader() order.Header {
	return order.Header{
		CustomerID:        10,
		BranchID:          11,
		InvoiceAddressID:  12,
		DeliveryAddressID: 13,
		PriceListID:       1,
		PaymentTermID:     2,
		OrderType:         "standard",
		SalespersonID:     5,
		SalesTeamID:       3,
		CompanyID:         1,
		SignatureRequired: true,
		ShippingPolicy:    "direct",
		ExternalFolio:     "CRM-0001",
	}
}

func mustStatus(t *testing.T, id kernel.ID, code int, name string) order.Status {
	t.Helper()
	s, err := order.NewStatus(id, code, name)
	require.NoError(t, err)
	return s
}

// savedOrder returns a confirmed order named S00007 with one history entry.
func savedOrder(t *testing.T) *order.Order {
	t.Helper()
	received := mustStatus(t, 1, 1, "Received")
	entry, err := order.RestoreHistoryEntry(1, received, fixedNow.Add(-time.Hour))
	require.NoError(t, err)
	o, err := order.RestoreOrder(7, "S00007", validHeader(), order.Sale, received, nil, []order.HistoryEntry{entry})
	require.NoError(t, err)
	return o
}
