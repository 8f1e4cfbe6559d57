package http

import (
	"errors"
	"net/http"

	"crmsync/internal/core/application/usecases/commands"
	"crmsync/internal/core/domain/services"
	"crmsync/internal/pkg/errs"
	"crmsync/internal/pkg/metrics"
)

const (
	msgOrderNotFound  = "order not found"
	msgInternalError  = "internal server error"
	msgNotNumericTmpl = "%s is not numeric"
)

type failure struct {
	code    int
	outcome string
	message string
}

// classify maps an error from validation or a command handler to its answer.
func classify(err error) failure {
	switch {
	case errors.Is(err, commands.ErrOrderNotFound):
		return failure{http.StatusNotFound, metrics.OutcomeNotFound, msgOrderNotFound}
	case errs.IsValidation(err):
		return failure{http.StatusUnprocessableEntity, metrics.OutcomeInvalid, err.Error()}
	case errors.Is(err, errs.ErrDownstreamRejected),
		errors.Is(err, services.ErrProductMismatch),
		errors.Is(err, errs.ErrConcurrentUpdate):
		return failure{http.StatusConflict, metrics.OutcomeRejected, err.Error()}
	default:
		return failure{http.StatusInternalServerError, metrics.OutcomeError, msgInternalError}
	}
}
