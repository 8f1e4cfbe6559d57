package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpin "crmsync/internal/adapters/in/http"
	"crmsync/internal/core/application/usecases/commands"
	"crmsync/internal/core/application/usecases/queries"
	"crmsync/internal/core/application/validation"
	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/domain/model/manufacturing"
	"crmsync/internal/core/domain/model/order"
	"crmsync/internal/core/domain/services"
	"crmsync/internal/pkg/errs"
	"crmsync/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockValidator struct{ mock.Mock }

func (m *MockValidator) ValidateCreate(ctx context.Context, p validation.Payload) (commands.CreateOrderCommand, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(commands.CreateOrderCommand), args.Error(1)
}

func (m *MockValidator) ValidateUpdate(ctx context.Context, orderID kernel.ID, p validation.Payload) (commands.UpdateOrderStatusCommand, error) {
	args := m.Called(ctx, orderID, p)
	return args.Get(0).(commands.UpdateOrderStatusCommand), args.Error(1)
}

type MockCreateOrderHandler struct{ mock.Mock }

func (m *MockCreateOrderHandler) Handle(ctx context.Context, cmd commands.CreateOrderCommand) (kernel.ID, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(kernel.ID), args.Error(1)
}

type MockUpdateOrderStatusHandler struct{ mock.Mock }

func (m *MockUpdateOrderStatusHandler) Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockGetOrderHandler struct{ mock.Mock }

func (m *MockGetOrderHandler) Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetOrderQueryResponse), args.Error(1)
}

type MockGetStatusesHandler struct{ mock.Mock }

func (m *MockGetStatusesHandler) Handle(ctx context.Context, query queries.GetStatusesQuery) ([]queries.GetStatusesQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]queries.GetStatusesQueryResponse), args.Error(1)
}

type fixture struct {
	validator   *MockValidator
	create      *MockCreateOrderHandler
	update      *MockUpdateOrderStatusHandler
	getOrder    *MockGetOrderHandler
	getStatuses *MockGetStatusesHandler
	metrics     *metrics.Metrics
	echo        *echo.Echo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		validator:   new(MockValidator),
		create:      new(MockCreateOrderHandler),
		update:      new(MockUpdateOrderStatusHandler),
		getOrder:    new(MockGetOrderHandler),
		getStatuses: new(MockGetStatusesHandler),
		metrics:     metrics.New(),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := httpin.NewServer(f.validator, f.create, f.update, f.getOrder, f.getStatuses, f.metrics, logger)

	e, err := httpin.NewRouter(t.Context(), server, f.metrics, logger)
	require.NoError(t, err)
	f.echo = e
	return f
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.validator.AssertExpectations(t)
	f.create.AssertExpectations(t)
	f.update.AssertExpectations(t)
	f.getOrder.AssertExpectations(t)
	f.getStatuses.AssertExpectations(t)
}

func (f *fixture) scrape() string {
	return f.do(http.MethodGet, "/metrics", "").Body.String()
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func status(t *testing.T, code int) order.Status {
	t.Helper()
	s, err := order.NewStatus(kernel.ID(10+code), code, "status")
	require.NoError(t, err)
	return s
}

func createCommand(t *testing.T) commands.CreateOrderCommand {
	t.Helper()
	header := order.Header{
		CustomerID: 1, BranchID: 2, InvoiceAddressID: 3, DeliveryAddressID: 4,
		PriceListID: 1, PaymentTermID: 1, OrderType: "standard", SalespersonID: 5,
		SalesTeamID: 1, CompanyID: 1, ShippingPolicy: "direct", ExternalFolio: "CRM-1",
	}
	cmd, err := commands.NewCreateOrderCommand(header, status(t, 1), []commands.OrderLineRequest{{ProductID: 31, Quantity: 2}})
	require.NoError(t, err)
	return cmd
}

func updateCommand(t *testing.T, orderID kernel.ID, code int) commands.UpdateOrderStatusCommand {
	t.Helper()
	var products []manufacturing.ProductionRequest
	if code == order.CodeInProduction {
		products = []manufacturing.ProductionRequest{{
			ProductID:  31,
			Components: []manufacturing.ComponentRequest{{ProductID: 200, Quantity: 2}},
		}}
	}
	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, status(t, code), products)
	require.NoError(t, err)
	return cmd
}

func orderExists(f *fixture, id kernel.ID) {
	f.getOrder.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetOrderQuery) bool {
		return q.OrderID() == id
	})).Return(queries.GetOrderQueryResponse{ID: id}, nil).Once()
}

func TestSyncCreateOrder_Success(t *testing.T) {
	f := newFixture(t)
	cmd := createCommand(t)
	f.validator.On("ValidateCreate", mock.Anything, mock.MatchedBy(func(p validation.Payload) bool {
		return p["external_folio"] == "CRM-1"
	})).Return(cmd, nil).Once()
	f.create.On("Handle", mock.Anything, cmd).Return(kernel.ID(42), nil).Once()

	rec := f.do(http.MethodPost, "/sync-orders", `{"external_folio":"CRM-1"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","order_id":42}`, rec.Body.String())
	assert.Contains(t, f.scrape(), `crmsync_sync_requests_total{operation="create",outcome="success"} 1`)
	assert.Contains(t, f.scrape(), `crmsync_status_transitions_total{code="1"} 1`)
	f.assertExpectations(t)
}

func TestSyncCreateOrder_ValidationError(t *testing.T) {
	f := newFixture(t)
	f.validator.On("ValidateCreate", mock.Anything, mock.Anything).
		Return(commands.CreateOrderCommand{}, errs.NewMissingValuesError("customer", "branch")).Once()

	rec := f.do(http.MethodPost, "/sync-orders", `{}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"status":"error","message":"missing required values: customer, branch"}`, rec.Body.String())
	f.assertExpectations(t)
}

func TestSyncCreateOrder_MalformedJSON(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/sync-orders", `{"customer":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", decode(t, rec)["status"])
	f.assertExpectations(t)
}

func TestSyncCreateOrder_NotAnObject(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/sync-orders", `[1,2]`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"status":"error","message":"payload must be a JSON object"}`, rec.Body.String())
}

func TestSyncCreateOrder_DownstreamRejected(t *testing.T) {
	f := newFixture(t)
	cmd := createCommand(t)
	f.validator.On("ValidateCreate", mock.Anything, mock.Anything).Return(cmd, nil).Once()
	f.create.On("Handle", mock.Anything, cmd).
		Return(kernel.ID(0), errs.NewDownstreamRejectedError("confirm order S00042", "company 1 not found")).Once()

	rec := f.do(http.MethodPost, "/sync-orders", `{"a":1}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"status":"error","message":"confirm order S00042: company 1 not found"}`, rec.Body.String())
	f.assertExpectations(t)
}

func TestSyncCreateOrder_InfrastructureErrorIsHidden(t *testing.T) {
	f := newFixture(t)
	cmd := createCommand(t)
	f.validator.On("ValidateCreate", mock.Anything, mock.Anything).Return(cmd, nil).Once()
	f.create.On("Handle", mock.Anything, cmd).Return(kernel.ID(0), assert.AnError).Once()

	rec := f.do(http.MethodPost, "/sync-orders", `{"a":1}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":"error","message":"internal server error"}`, rec.Body.String())
}

func TestSyncCreateOrder_JSONRPCEnvelope(t *testing.T) {
	f := newFixture(t)
	cmd := createCommand(t)
	f.validator.On("ValidateCreate", mock.Anything, mock.MatchedBy(func(p validation.Payload) bool {
		_, hasEnvelopeKey := p["jsonrpc"]
		return p["external_folio"] == "CRM-1" && !hasEnvelopeKey
	})).Return(cmd, nil).Once()
	f.create.On("Handle", mock.Anything, cmd).Return(kernel.ID(7), nil).Once()

	rec := f.do(http.MethodPost, "/sync-orders",
		`{"jsonrpc":"2.0","method":"call","id":99,"params":{"external_folio":"CRM-1"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":99,"result":{"status":"success","order_id":7}}`, rec.Body.String())
	f.assertExpectations(t)
}

func TestSyncCreateOrder_JSONRPCEnvelopeCarriesErrors(t *testing.T) {
	f := newFixture(t)
	f.validator.On("ValidateCreate", mock.Anything, mock.Anything).
		Return(commands.CreateOrderCommand{}, errs.NewReferenceNotFoundError("customer", 999)).Once()

	rec := f.do(http.MethodPost, "/sync-orders", `{"jsonrpc":"2.0","id":"a","params":{"customer":999}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"jsonrpc":"2.0","id":"a","result":{"status":"error","message":"reference not found: customer 999"}}`,
		rec.Body.String())
}

func TestSyncUpdateOrderStatus_Success(t *testing.T) {
	f := newFixture(t)
	cmd := updateCommand(t, 42, order.CodeInProduction)
	orderExists(f, 42)
	f.validator.On("ValidateUpdate", mock.Anything, kernel.ID(42), mock.Anything).Return(cmd, nil).Once()
	f.update.On("Handle", mock.Anything, cmd).Return(nil).Once()

	rec := f.do(http.MethodPost, "/sync-orders/42", `{"status_code":4,"products":[]}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success"}`, rec.Body.String())
	f.assertExpectations(t)
}

func TestSyncUpdateOrderStatus_NotNumeric(t *testing.T) {
	for _, id := range []string{"abc", "-5", "4.2", "12a"} {
		t.Run(id, func(t *testing.T) {
			f := newFixture(t)

			rec := f.do(http.MethodPost, "/sync-orders/"+id, `{"status_code":1}`)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"status":"error","message":"`+id+` is not numeric"}`, rec.Body.String())
			f.assertExpectations(t)
		})
	}
}

func TestSyncUpdateOrderStatus_UnknownOrderIsCheckedBeforeValidation(t *testing.T) {
	f := newFixture(t)
	f.getOrder.On("Handle", mock.Anything, mock.Anything).
		Return(queries.GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", 404)).Once()

	rec := f.do(http.MethodPost, "/sync-orders/404", `{}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":"error","message":"order not found"}`, rec.Body.String())
	f.validator.AssertNotCalled(t, "ValidateUpdate", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestSyncUpdateOrderStatus_ZeroIDIsUnknown(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/sync-orders/0", `{}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":"error","message":"order not found"}`, rec.Body.String())
}

func TestSyncUpdateOrderStatus_OrderDeletedMeanwhile(t *testing.T) {
	f := newFixture(t)
	cmd := updateCommand(t, 42, 1)
	orderExists(f, 42)
	f.validator.On("ValidateUpdate", mock.Anything, kernel.ID(42), mock.Anything).Return(cmd, nil).Once()
	f.update.On("Handle", mock.Anything, cmd).Return(commands.ErrOrderNotFound).Once()

	rec := f.do(http.MethodPost, "/sync-orders/42", `{"status_code":1}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	f.assertExpectations(t)
}

func TestSyncUpdateOrderStatus_ValidationError(t *testing.T) {
	f := newFixture(t)
	orderExists(f, 42)
	f.validator.On("ValidateUpdate", mock.Anything, kernel.ID(42), mock.Anything).
		Return(commands.UpdateOrderStatusCommand{}, errs.NewValueIsRequiredError("products.components")).Once()

	rec := f.do(http.MethodPost, "/sync-orders/42", `{"status_code":4,"products":[{"id":31}]}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "error", decode(t, rec)["status"])
	assert.Contains(t, decode(t, rec)["message"], "products.components")
	f.assertExpectations(t)
}

func TestSyncUpdateOrderStatus_ProductMismatch(t *testing.T) {
	f := newFixture(t)
	cmd := updateCommand(t, 42, order.CodeInProduction)
	orderExists(f, 42)
	f.validator.On("ValidateUpdate", mock.Anything, kernel.ID(42), mock.Anything).Return(cmd, nil).Once()
	mismatch := &services.ProductMismatchError{OrderName: "MO/00001", ProductID: 31, ProductName: "Insole", Supplied: []kernel.ID{32}}
	f.update.On("Handle", mock.Anything, cmd).Return(mismatch).Once()

	rec := f.do(http.MethodPost, "/sync-orders/42", `{"status_code":4}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"status":"error","message":"`+mismatch.Error()+`"}`, rec.Body.String())
	assert.Contains(t, f.scrape(), `crmsync_sync_requests_total{operation="update",outcome="rejected"} 1`)
	assert.NotContains(t, f.scrape(), `crmsync_status_transitions_total{code="4"}`)
	f.assertExpectations(t)
}

func TestSyncUpdateOrderStatus_ConcurrentUpdate(t *testing.T) {
	f := newFixture(t)
	cmd := updateCommand(t, 42, 1)
	orderExists(f, 42)
	f.validator.On("ValidateUpdate", mock.Anything, kernel.ID(42), mock.Anything).Return(cmd, nil).Once()
	f.update.On("Handle", mock.Anything, cmd).Return(errs.ErrConcurrentUpdate).Once()

	rec := f.do(http.MethodPost, "/sync-orders/42", `{"status_code":1}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetSyncedOrder(t *testing.T) {
	f := newFixture(t)
	appliedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	f.getOrder.On("Handle", mock.Anything, mock.Anything).Return(queries.GetOrderQueryResponse{
		ID:            42,
		Name:          "S00042",
		ExternalFolio: "CRM-1",
		State:         "sale",
		StatusCode:    1,
		StatusName:    "New",
		CustomerID:    1,
		CompanyID:     1,
		Lines:         []queries.OrderLineResponse{{ProductID: 31, ProductName: "Insole", Quantity: 2}},
		History:       []queries.StatusHistoryResponse{{StatusCode: 1, StatusName: "New", AppliedAt: appliedAt}},
	}, nil).Once()

	rec := f.do(http.MethodGet, "/sync-orders/42", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"id": 42, "name": "S00042", "external_folio": "CRM-1", "state": "sale",
		"status_code": 1, "status_name": "New", "customer_id": 1, "company_id": 1,
		"lines": [{"product_id": 31, "product_name": "Insole", "quantity": 2}],
		"history": [{"status_code": 1, "status_name": "New", "applied_at": "2026-03-01T09:00:00Z"}]
	}`, rec.Body.String())
}

func TestGetSyncedOrder_Errors(t *testing.T) {
	f := newFixture(t)
	f.getOrder.On("Handle", mock.Anything, mock.Anything).
		Return(queries.GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", 7)).Once()

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/sync-orders/7", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/sync-orders/x", "").Code)
}

func TestGetStatuses(t *testing.T) {
	f := newFixture(t)
	f.getStatuses.On("Handle", mock.Anything, mock.Anything).Return([]queries.GetStatusesQueryResponse{
		{ID: 11, Code: 1, Name: "New"},
		{ID: 14, Code: 4, Name: "In production"},
	}, nil).Once()

	rec := f.do(http.MethodGet, "/statuses", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":11,"code":1,"name":"New"},{"id":14,"code":4,"name":"In production"}]`, rec.Body.String())
}

func TestOperationalEndpoints(t *testing.T) {
	f := newFixture(t)

	health := f.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, health.Code)
	assert.Equal(t, "Healthy", health.Body.String())

	doc := f.do(http.MethodGet, "/openapi.json", "")
	assert.Equal(t, http.StatusOK, doc.Code)
	assert.Equal(t, "3.0.3", decode(t, doc)["openapi"])

	m := f.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, m.Code)
	assert.Contains(t, m.Body.String(), "crmsync_outbox_events_published_total")

	unknown := f.do(http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, unknown.Code)
	assert.Equal(t, "error", decode(t, unknown)["status"])
}
