package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"crmsync/api"
	"crmsync/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// NewRouter builds the echo instance: sync routes, read routes and the
// operational endpoints (health, metrics, OpenAPI document, Swagger UI).
func NewRouter(ctx context.Context, server ServerInterface, m *metrics.Metrics, logger *slog.Logger) (*echo.Echo, error) {
	doc, err := api.JSON(ctx)
	if err != nil {
		return nil, err
	}
	if err = api.RegisterSwagger(ctx); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.RequestID())
	e.Use(RequestLogger(logger))
	e.Use(middleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))
	e.GET("/openapi.json", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, doc)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	RegisterHandlers(e, server)

	return e, nil
}

// errorHandler renders errors that escape the handlers, such as unknown routes
// or bad path parameters, in the status/message shape.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := msgInternalError
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			message = fmt.Sprint(he.Message)
		} else {
			logger.ErrorContext(c.Request().Context(), "unhandled error", "error", err)
		}

		if respErr := c.JSON(code, errorResult(message)); respErr != nil {
			logger.ErrorContext(c.Request().Context(), "failed to write error response", "error", respErr)
		}
	}
}
