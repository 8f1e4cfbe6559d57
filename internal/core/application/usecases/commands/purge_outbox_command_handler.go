package commands

import (
	"context"
	"time"
)

// PurgeOutboxCommandHandler deletes published outbox messages past their retention.
// Pending messages are never deleted.
type PurgeOutboxCommandHandler struct {
	uowFactory OutboxUoWFactory
	now        func() time.Time
}

func NewPurgeOutboxCommandHandler(uowFactory OutboxUoWFactory, now func() time.Time) PurgeOutboxCommandHandler {
	return PurgeOutboxCommandHandler{
		uowFactory: uowFactory,
		now:        now,
	}
}

// Handle returns how many messages were deleted.
func (h *PurgeOutboxCommandHandler) Handle(ctx context.Context, cmd PurgeOutboxCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deleted, err := uow.OutboxRepository().DeletePublishedBefore(ctx, h.now().Add(-cmd.Retention()))
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return deleted, nil
}
