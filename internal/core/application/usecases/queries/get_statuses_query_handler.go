package queries

import (
	"context"

	"crmsync/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// GetStatusesQueryHandler lists the status catalog ordered by code.
type GetStatusesQueryHandler struct {
	db *gorm.DB
}

func NewGetStatusesQueryHandler(db *gorm.DB) GetStatusesQueryHandler {
	return GetStatusesQueryHandler{db: db}
}

func (h GetStatusesQueryHandler) Handle(ctx context.Context, query GetStatusesQuery) ([]GetStatusesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	statuses := make([]GetStatusesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, code, name
		FROM crm_statuses
		ORDER BY code
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var s GetStatusesQueryResponse
		var id int64
		if err = rows.Scan(&id, &s.Code, &s.Name); err != nil {
			return nil, err
		}
		s.ID = kernel.ID(id)
		statuses = append(statuses, s)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return statuses, nil
}
