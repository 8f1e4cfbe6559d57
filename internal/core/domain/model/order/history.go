package order

import (
	"time"

	"crmsync/internal/core/domain/model/kernel"
)

// HistoryEntry records one status application.
type HistoryEntry struct {
	id        kernel.ID
	status    Status
	appliedAt time.Time
}

// RestoreHistoryEntry rebuilds a persisted entry.
func RestoreHistoryEntry(id kernel.ID, status Status, appliedAt time.Time) (HistoryEntry, error) {
	if err := id.Validate(); err != nil {
		return HistoryEntry{}, err
	}
	if err := status.Validate(); err != nil {
		return HistoryEntry{}, err
	}
	return HistoryEntry{id: id, status: status, appliedAt: appliedAt}, nil
}

// ID is zero until the entry is saved.
func (h HistoryEntry) ID() kernel.ID {
	return h.id
}

func (h HistoryEntry) Status() Status {
	return h.status
}

func (h HistoryEntry) AppliedAt() time.Time {
	return h.appliedAt
}

func (h HistoryEntry) IsSaved() bool {
	return h.id.IsAssigned()
}
