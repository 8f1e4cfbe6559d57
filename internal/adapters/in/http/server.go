package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"crmsync/internal/core/application/usecases/commands"
	"crmsync/internal/core/application/usecases/queries"
	"crmsync/internal/core/application/validation"
	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/pkg/errs"
	"crmsync/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// Use case contracts the server depends on. The command and query handlers of the
// application layer satisfy them.
type (
	PayloadValidator interface {
		ValidateCreate(ctx context.Context, p validation.Payload) (commands.CreateOrderCommand, error)
		ValidateUpdate(ctx context.Context, orderID kernel.ID, p validation.Payload) (commands.UpdateOrderStatusCommand, error)
	}

	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (kernel.ID, error)
	}

	UpdateOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) error
	}

	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
	}

	GetStatusesHandler interface {
		Handle(ctx context.Context, query queries.GetStatusesQuery) ([]queries.GetStatusesQueryResponse, error)
	}
)

// Server implements ServerInterface. It turns CRM requests into validated
// commands and reports every outcome as a single status/message answer.
type Server struct {
	validator PayloadValidator

	// Command handlers
	createOrderHandler       CreateOrderHandler
	updateOrderStatusHandler UpdateOrderStatusHandler

	// Query handlers
	getOrderHandler    GetOrderHandler
	getStatusesHandler GetStatusesHandler

	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewServer creates a new HTTP server with the required validator, command and query handlers.
func NewServer(
	validator PayloadValidator,
	createOrderHandler CreateOrderHandler,
	updateOrderStatusHandler UpdateOrderStatusHandler,
	getOrderHandler GetOrderHandler,
	getStatusesHandler GetStatusesHandler,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Server {
	return &Server{
		validator:                validator,
		createOrderHandler:       createOrderHandler,
		updateOrderStatusHandler: updateOrderStatusHandler,
		getOrderHandler:          getOrderHandler,
		getStatusesHandler:       getStatusesHandler,
		metrics:                  m,
		logger:                   logger.With("component", "http_server"),
	}
}

// SyncCreateOrder handles POST /sync-orders - creates and confirms an order.
func (s *Server) SyncCreateOrder(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	req, err := readSyncRequest(ctx)
	if err != nil {
		return s.malformed(ctx, req, metrics.OperationCreate, err)
	}

	cmd, err := s.validator.ValidateCreate(reqCtx, req.payload)
	if err != nil {
		return s.fail(ctx, req, metrics.OperationCreate, err)
	}

	orderID, err := s.createOrderHandler.Handle(reqCtx, cmd)
	if err != nil {
		return s.fail(ctx, req, metrics.OperationCreate, err)
	}

	s.metrics.SyncRequest(metrics.OperationCreate, metrics.OutcomeSuccess)
	s.metrics.StatusTransition(cmd.Status().Code())
	s.logger.InfoContext(reqCtx, "order created", "order_id", orderID.Int64(), "status_code", cmd.Status().Code())

	id := orderID.Int64()
	result := successResult()
	result.OrderID = &id
	return req.reply(ctx, http.StatusOK, result)
}

// SyncUpdateOrderStatus handles POST /sync-orders/:id - applies a CRM status.
// The order must exist before the payload is validated.
func (s *Server) SyncUpdateOrderStatus(ctx echo.Context, id string) error {
	reqCtx := ctx.Request().Context()

	req, err := readSyncRequest(ctx)
	if err != nil {
		return s.malformed(ctx, req, metrics.OperationUpdate, err)
	}

	orderID, ok := parseOrderID(id)
	if !ok {
		s.metrics.SyncRequest(metrics.OperationUpdate, metrics.OutcomeMalformed)
		return req.reply(ctx, http.StatusBadRequest, errorResult(fmt.Sprintf(msgNotNumericTmpl, id)))
	}

	if err = s.ensureOrderExists(reqCtx, orderID); err != nil {
		return s.fail(ctx, req, metrics.OperationUpdate, err)
	}

	cmd, err := s.validator.ValidateUpdate(reqCtx, orderID, req.payload)
	if err != nil {
		return s.fail(ctx, req, metrics.OperationUpdate, err)
	}

	if err = s.updateOrderStatusHandler.Handle(reqCtx, cmd); err != nil {
		return s.fail(ctx, req, metrics.OperationUpdate, err)
	}

	s.metrics.SyncRequest(metrics.OperationUpdate, metrics.OutcomeSuccess)
	s.metrics.StatusTransition(cmd.Status().Code())
	s.logger.InfoContext(reqCtx, "order status applied", "order_id", orderID.Int64(), "status_code", cmd.Status().Code())

	return req.reply(ctx, http.StatusOK, successResult())
}

// GetSyncedOrder handles GET /sync-orders/:id - returns the order summary.
func (s *Server) GetSyncedOrder(ctx echo.Context, id string) error {
	orderID, ok := parseOrderID(id)
	if !ok {
		return ctx.JSON(http.StatusBadRequest, errorResult(fmt.Sprintf(msgNotNumericTmpl, id)))
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return ctx.JSON(http.StatusNotFound, errorResult(msgOrderNotFound))
	}

	summary, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ctx.JSON(http.StatusNotFound, errorResult(msgOrderNotFound))
	}
	if err != nil {
		s.logger.ErrorContext(ctx.Request().Context(), "failed to retrieve order", "order_id", id, "error", err)
		return ctx.JSON(http.StatusInternalServerError, errorResult("Failed to retrieve order"))
	}

	return ctx.JSON(http.StatusOK, toOrderSummary(summary))
}

// GetStatuses handles GET /statuses - returns the CRM status catalog.
func (s *Server) GetStatuses(ctx echo.Context) error {
	statuses, err := s.getStatusesHandler.Handle(ctx.Request().Context(), queries.NewGetStatusesQuery())
	if err != nil {
		s.logger.ErrorContext(ctx.Request().Context(), "failed to retrieve statuses", "error", err)
		return ctx.JSON(http.StatusInternalServerError, errorResult("Failed to retrieve statuses"))
	}

	response := make([]Status, len(statuses))
	for i, st := range statuses {
		response[i] = Status{ID: st.ID.Int64(), Code: st.Code, Name: st.Name}
	}
	return ctx.JSON(http.StatusOK, response)
}

func (s *Server) ensureOrderExists(ctx context.Context, orderID kernel.ID) error {
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return commands.ErrOrderNotFound
	}

	_, err = s.getOrderHandler.Handle(ctx, query)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return commands.ErrOrderNotFound
	}
	return err
}

func (s *Server) malformed(ctx echo.Context, req syncRequest, operation string, err error) error {
	s.metrics.SyncRequest(operation, metrics.OutcomeMalformed)
	return req.reply(ctx, http.StatusBadRequest, errorResult(err.Error()))
}

func (s *Server) fail(ctx echo.Context, req syncRequest, operation string, err error) error {
	f := classify(err)
	s.metrics.SyncRequest(operation, f.outcome)

	reqCtx := ctx.Request().Context()
	switch f.code {
	case http.StatusInternalServerError:
		s.logger.ErrorContext(reqCtx, "sync request failed", "operation", operation, "error", err)
	case http.StatusConflict:
		s.logger.WarnContext(reqCtx, "sync request rejected", "operation", operation, "error", err)
	}

	return req.reply(ctx, f.code, errorResult(f.message))
}

// parseOrderID accepts decimal digits only, as the CRM sends them.
func parseOrderID(raw string) (kernel.ID, bool) {
	if raw == "" {
		return 0, false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return kernel.ID(n), true
}

// Status is a catalog entry.
type Status struct {
	ID   int64  `json:"id"`
	Code int    `json:"code"`
	Name string `json:"name"`
}

// OrderSummary is the answer of GET /sync-orders/:id.
type OrderSummary struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	ExternalFolio string          `json:"external_folio"`
	State         string          `json:"state"`
	StatusCode    int             `json:"status_code"`
	StatusName    string          `json:"status_name"`
	CustomerID    int64           `json:"customer_id"`
	CompanyID     int64           `json:"company_id"`
	Lines         []OrderLine     `json:"lines"`
	History       []StatusHistory `json:"history"`
}

type OrderLine struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

type StatusHistory struct {
	StatusCode int       `json:"status_code"`
	StatusName string    `json:"status_name"`
	AppliedAt  time.Time `json:"applied_at"`
}

func toOrderSummary(r queries.GetOrderQueryResponse) OrderSummary {
	summary := OrderSummary{
		ID:            r.ID.Int64(),
		Name:          r.Name,
		ExternalFolio: r.ExternalFolio,
		State:         r.State,
		StatusCode:    r.StatusCode,
		StatusName:    r.StatusName,
		CustomerID:    r.CustomerID.Int64(),
		CompanyID:     r.CompanyID.Int64(),
		Lines:         make([]OrderLine, len(r.Lines)),
		History:       make([]StatusHistory, len(r.History)),
	}
	for i, l := range r.Lines {
		summary.Lines[i] = OrderLine{ProductID: l.ProductID.Int64(), ProductName: l.ProductName, Quantity: l.Quantity}
	}
	for i, h := range r.History {
		summary.History[i] = StatusHistory{StatusCode: h.StatusCode, StatusName: h.StatusName, AppliedAt: h.AppliedAt}
	}
	return summary
}
