package queries

import (
	"errors"

	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/pkg/guard"
)

var (
	ErrGetStatusesQueryIsNotConstructed = errors.New(
		"GetStatusesQuery must be created via NewGetStatusesQuery constructor",
	)
)

// GetStatusesQuery retrieves the CRM status catalog.
type GetStatusesQuery struct {
	guard guard.ConstructorGuard
}

// NewGetStatusesQuery creates a parameterless catalog query.
func NewGetStatusesQuery() GetStatusesQuery {
	return GetStatusesQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetStatusesQuery) Validate() error {
	return q.guard.Validate(ErrGetStatusesQueryIsNotConstructed)
}

// GetStatusesQueryResponse is one catalog entry.
type GetStatusesQueryResponse struct {
	ID   kernel.ID
	Code int
	Name string
}
