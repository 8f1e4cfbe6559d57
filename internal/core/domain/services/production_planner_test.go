package services_test

import (
	"errors"
	"testing"

	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/domain/model/manufacturing"
	"crmsync/internal/core/domain/model/reference"
	"crmsync/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMO(t *testing.T, name string, productID kernel.ID) *manufacturing.Order {
	t.Helper()
	product := reference.ProductInfo{ID: productID, Name: "Product " + productID.String(), UoMID: 1, Manufactured: true}
	mo, err := manufacturing.NewOrder(name, "S00001", product, 1, 8, 15, 1)
	require.NoError(t, err)
	return mo
}

func TestProductionPlanner_Plan(t *testing.T) {
	planner := services.NewProductionPlanner()

	t.Run("matches every order with its product", func(t *testing.T) {
		mo1 := newMO(t, "MO/00001", 100)
		mo2 := newMO(t, "MO/00002", 101)
		requests := []manufacturing.ProductionRequest{
			{ProductID: 101, Components: []manufacturing.ComponentRequest{{ProductID: 201, Quantity: 4}}},
			{ProductID: 100, Components: []manufacturing.ComponentRequest{{ProductID: 200, Quantity: 1}}},
			{ProductID: 999, Components: []manufacturing.ComponentRequest{{ProductID: 300, Quantity: 1}}},
		}

		plan, err := planner.Plan([]*manufacturing.Order{mo1, mo2}, requests)

		require.NoError(t, err)
		require.Len(t, plan, 2)
		assert.Same(t, mo1, plan[0].Order)
		assert.Equal(t, []manufacturing.ComponentRequest{{ProductID: 200, Quantity: 1}}, plan[0].Components)
		assert.Same(t, mo2, plan[1].Order)
		assert.Equal(t, kernel.ID(201), plan[1].Components[0].ProductID)
	})

	t.Run("concatenates components of repeated products", func(t *testing.T) {
		mo := newMO(t, "MO/00001", 100)
		requests := []manufacturing.ProductionRequest{
			{ProductID: 100, Components: []manufacturing.ComponentRequest{{ProductID: 200, Quantity: 1}}},
			{ProductID: 100, Components: []manufacturing.ComponentRequest{{ProductID: 201, Quantity: 2}}},
		}

		plan, err := planner.Plan([]*manufacturing.Order{mo}, requests)

		require.NoError(t, err)
		assert.Len(t, plan[0].Components, 2)
	})

	t.Run("no manufacturing orders gives an empty plan", func(t *testing.T) {
		plan, err := planner.Plan(nil, []manufacturing.ProductionRequest{{ProductID: 100}})

		require.NoError(t, err)
		assert.Empty(t, plan)
	})

	t.Run("unmatched order fails naming order and products", func(t *testing.T) {
		mo1 := newMO(t, "MO/00001", 100)
		mo2 := newMO(t, "MO/00002", 102)
		requests := []manufacturing.ProductionRequest{{ProductID: 100}, {ProductID: 101}}

		plan, err := planner.Plan([]*manufacturing.Order{mo1, mo2}, requests)

		require.Nil(t, plan)
		require.ErrorIs(t, err, services.ErrProductMismatch)
		var mismatch *services.ProductMismatchError
		require.True(t, errors.As(err, &mismatch))
		assert.Equal(t, "MO/00002", mismatch.OrderName)
		assert.Equal(t, kernel.ID(102), mismatch.ProductID)
		assert.Equal(t, []kernel.ID{100, 101}, mismatch.Supplied)
		assert.Equal(t, "product Product 102 (102) of manufacturing order MO/00002 not found in products [100, 101]", err.Error())

		assert.Empty(t, mo1.RawLines())
		assert.Equal(t, manufacturing.Draft, mo1.State())
	})
}
