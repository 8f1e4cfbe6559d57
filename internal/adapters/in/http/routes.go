package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface lists the operations of api/openapi.yaml.
type ServerInterface interface {
	// (POST /sync-orders)
	SyncCreateOrder(ctx echo.Context) error
	// (GET /sync-orders/{id})
	GetSyncedOrder(ctx echo.Context, id string) error
	// (POST /sync-orders/{id})
	SyncUpdateOrderStatus(ctx echo.Context, id string) error
	// (GET /statuses)
	GetStatuses(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) SyncCreateOrder(ctx echo.Context) error {
	return w.Handler.SyncCreateOrder(ctx)
}

func (w *ServerInterfaceWrapper) GetSyncedOrder(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetSyncedOrder(ctx, id)
}

func (w *ServerInterfaceWrapper) SyncUpdateOrderStatus(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.SyncUpdateOrderStatus(ctx, id)
}

func (w *ServerInterfaceWrapper) GetStatuses(ctx echo.Context) error {
	return w.Handler.GetStatuses(ctx)
}

// bindID reads the id path parameter as a string. The handlers decide whether it
// is numeric so they can answer with their own message.
func bindID(ctx echo.Context) (string, error) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter id: %s", err))
	}
	return id, nil
}

// EchoRouter is satisfied by *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds the operations of si to router.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.POST("/sync-orders", wrapper.SyncCreateOrder)
	router.GET("/sync-orders/:id", wrapper.GetSyncedOrder)
	router.POST("/sync-orders/:id", wrapper.SyncUpdateOrderStatus)
	router.GET("/statuses", wrapper.GetStatuses)
}
