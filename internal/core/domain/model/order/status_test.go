package order_test

import (
	"encoding/json"
	"testing"
	"time"

	"crmsync/internal/core/domain/model/order"
	"crmsync/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStatus(t *testing.T) {
	testCases := []struct {
		name         string
		code         int
		inProduction bool
		readyToShip  bool
	}{
		{"received", 1, false, false},
		{"in production", order.CodeInProduction, true, false},
		{"ready to ship", order.CodeReadyToShip, false, true},
		{"delivered", 7, false, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := order.NewStatus(20, tc.code, tc.name)

			require.NoError(t, err)
			assert.Equal(t, tc.code, s.Code())
			assert.Equal(t, tc.name, s.Name())
			assert.Equal(t, tc.inProduction, s.IsInProduction())
			assert.Equal(t, tc.readyToShip, s.IsReadyToShip())
		})
	}

	t.Run("rejects non positive code", func(t *testing.T) {
		_, err := order.NewStatus(20, 0, "none")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects unassigned id", func(t *testing.T) {
		_, err := order.NewStatus(0, 3, "none")
		require.Error(t, err)
	})
}

func TestState_Validate(t *testing.T) {
	require.NoError(t, order.Draft.Validate())
	require.NoError(t, order.Sale.Validate())
	require.NoError(t, order.Cancel.Validate())
	require.ErrorIs(t, order.State("").Validate(), errs.ErrValueIsInvalid)
}

func TestStatusChanged_MarshalJSON(t *testing.T) {
	o, err := order.NewOrder(validHeader(), mustStatus(t, 1, 1, "Received"))
	require.NoError(t, err)
	require.NoError(t, o.Identify(12))
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	o.RecordStatus(at)

	raw, err := json.Marshal(o.DomainEvents()[0])
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "order.status_changed", payload["event_name"])
	assert.Equal(t, "S00012", payload["order_name"])
	assert.Equal(t, "CRM-0001", payload["external_folio"])
	assert.InDelta(t, 1, payload["status_code"], 0)
	assert.Equal(t, "2024-01-02T03:04:05Z", payload["occurred_at"])
}
