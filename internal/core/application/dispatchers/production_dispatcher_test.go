package dispatchers_test

import (
	"testing"

	"crmsync/internal/core/application/dispatchers"
	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/domain/model/manufacturing"
	"crmsync/internal/core/domain/model/reference"
	"crmsync/internal/core/domain/services"
	"crmsync/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var components = map[kernel.ID]reference.ProductInfo{
	200: {ID: 200, Name: "EVA foam", UoMID: 1},
	201: {ID: 201, Name: "Leather top cover", UoMID: 1},
}

func newMO(t *testing.T, name string, productID kernel.ID) *manufacturing.Order {
	t.Helper()
	mo, err := manufacturing.NewOrder(name, "S00001",
		reference.ProductInfo{ID: productID, Name: "Insole " + productID.String(), UoMID: 1, Manufactured: true},
		2, 8, 15, 1)
	require.NoError(t, err)
	return mo
}

func TestProductionDispatcher_Dispatch_CompletesMatchedOrders(t *testing.T) {
	ctx := t.Context()
	o := newSaleOrder(t)
	mo1 := newMO(t, "MO/00001", 100)
	mo2 := newMO(t, "MO/00002", 101)
	requests := []manufacturing.ProductionRequest{
		{ProductID: 100, Components: []manufacturing.ComponentRequest{{ProductID: 200, Quantity: 3}, {ProductID: 201, Quantity: 1}}},
		{ProductID: 101, Components: []manufacturing.ComponentRequest{{ProductID: 200, Quantity: 5}}},
	}

	gateway := new(MockManufacturingGateway)
	resolver := new(MockReferenceResolver)
	mock.InOrder(
		gateway.On("FindByOrigin", ctx, "S00001").Return([]*manufacturing.Order{mo1, mo2}, nil).Once(),
		resolver.On("ProductsByID", ctx, []kernel.ID{200, 201}).Return(components, nil).Once(),
		gateway.On("Save", ctx, mo1).Return(nil).Once(),
		gateway.On("Confirm", ctx, mo1).Return(nil).Once(),
		gateway.On("Save", ctx, mo1).Return(nil).Once(),
		gateway.On("MarkDone", ctx, mo1).Return(nil).Once(),
		gateway.On("Save", ctx, mo2).Return(nil).Once(),
		gateway.On("Confirm", ctx, mo2).Return(nil).Once(),
		gateway.On("Save", ctx, mo2).Return(nil).Once(),
		gateway.On("MarkDone", ctx, mo2).Return(nil).Once(),
	)

	err := dispatchers.NewProductionDispatcher(gateway, resolver).Dispatch(ctx, o, requests)

	require.NoError(t, err)
	gateway.AssertExpectations(t)
	resolver.AssertExpectations(t)

	assert.Equal(t, manufacturing.Done, mo1.State())
	assert.Equal(t, 2, mo1.ProducingQty())
	lines := mo1.RawLines()
	require.Len(t, lines, 2)
	assert.Equal(t, kernel.ID(200), lines[0].Product().ID)
	assert.Equal(t, 3, lines[0].Required())
	assert.Equal(t, 3, lines[0].Done())
	assert.Equal(t, kernel.ID(8), lines[0].SourceLocationID())
	assert.Equal(t, kernel.ID(15), lines[0].DestinationLocationID())
	assert.Equal(t, o.CompanyID(), lines[0].CompanyID())
	assert.Equal(t, kernel.ID(201), lines[1].Product().ID)
	assert.Equal(t, 1, lines[1].Required())

	assert.Equal(t, manufacturing.Done, mo2.State())
	require.Len(t, mo2.RawLines(), 1)
	assert.Equal(t, 5, mo2.RawLines()[0].Done())
}

func TestProductionDispatcher_Dispatch_MismatchLeavesOrdersUntouched(t *testing.T) {
	ctx := t.Context()
	o := newSaleOrder(t)
	mo1 := newMO(t, "MO/00001", 100)
	mo2 := newMO(t, "MO/00002", 102)
	requests := []manufacturing.ProductionRequest{
		{ProductID: 100, Components: []manufacturing.ComponentRequest{{ProductID: 200, Quantity: 3}}},
	}

	gateway := new(MockManufacturingGateway)
	resolver := new(MockReferenceResolver)
	gateway.On("FindByOrigin", ctx, "S00001").Return([]*manufacturing.Order{mo1, mo2}, nil).Once()

	err := dispatchers.NewProductionDispatcher(gateway, resolver).Dispatch(ctx, o, requests)

	require.ErrorIs(t, err, services.ErrProductMismatch)
	assert.Contains(t, err.Error(), "MO/00002")
	assert.Contains(t, err.Error(), "Insole 102")
	gateway.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	resolver.AssertNotCalled(t, "ProductsByID", mock.Anything, mock.Anything)
	assert.Equal(t, manufacturing.Draft, mo1.State())
	assert.Empty(t, mo1.RawLines())
}

func TestProductionDispatcher_Dispatch_StopsAtFirstRejection(t *testing.T) {
	ctx := t.Context()
	o := newSaleOrder(t)
	mo1 := newMO(t, "MO/00001", 100)
	mo2 := newMO(t, "MO/00002", 101)
	requests := []manufacturing.ProductionRequest{
		{ProductID: 100, Components: []manufacturing.ComponentRequest{{ProductID: 200, Quantity: 3}}},
		{ProductID: 101, Components: []manufacturing.ComponentRequest{{ProductID: 201, Quantity: 1}}},
	}
	rejection := errs.NewDownstreamRejectedError("confirm manufacturing order MO/00001", "component out of stock")

	gateway := new(MockManufacturingGateway)
	resolver := new(MockReferenceResolver)
	gateway.On("FindByOrigin", ctx, "S00001").Return([]*manufacturing.Order{mo1, mo2}, nil).Once()
	resolver.On("ProductsByID", ctx, []kernel.ID{200, 201}).Return(components, nil).Once()
	gateway.On("Save", ctx, mo1).Return(nil).Once()
	gateway.On("Confirm", ctx, mo1).Return(rejection).Once()

	err := dispatchers.NewProductionDispatcher(gateway, resolver).Dispatch(ctx, o, requests)

	require.ErrorIs(t, err, errs.ErrDownstreamRejected)
	assert.Equal(t, "confirm manufacturing order MO/00001: component out of stock", err.Error())
	gateway.AssertNotCalled(t, "Save", ctx, mo2)
	gateway.AssertExpectations(t)
}

func TestProductionDispatcher_Dispatch_NoManufacturingOrders(t *testing.T) {
	ctx := t.Context()
	gateway := new(MockManufacturingGateway)
	resolver := new(MockReferenceResolver)
	gateway.On("FindByOrigin", ctx, "S00001").Return([]*manufacturing.Order{}, nil).Once()

	err := dispatchers.NewProductionDispatcher(gateway, resolver).Dispatch(ctx, newSaleOrder(t),
		[]manufacturing.ProductionRequest{{ProductID: 100}})

	require.NoError(t, err)
	resolver.AssertNotCalled(t, "ProductsByID", mock.Anything, mock.Anything)
}
