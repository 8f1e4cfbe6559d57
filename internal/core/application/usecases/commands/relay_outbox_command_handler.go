package commands

import (
	"context"
	"time"

	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/ports"
)

// RelayOutboxCommandHandler publishes pending outbox messages, oldest first.
//
// Messages are marked published in the same transaction that locked them. When
// publishing fails, the messages published before the failure are still marked
// and the rest stay pending for the next run. Delivery is at least once.
type RelayOutboxCommandHandler struct {
	uowFactory OutboxUoWFactory
	publisher  ports.EventPublisher
	now        func() time.Time
}

func NewRelayOutboxCommandHandler(
	uowFactory OutboxUoWFactory,
	publisher ports.EventPublisher,
	now func() time.Time,
) RelayOutboxCommandHandler {
	return RelayOutboxCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		now:        now,
	}
}

// Handle returns how many messages were published.
func (h *RelayOutboxCommandHandler) Handle(ctx context.Context, cmd RelayOutboxCommand) (int, error) {
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

	outboxRepo := uow.OutboxRepository()
	pending, err := outboxRepo.GetPending(ctx, cmd.BatchSize())
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	published := make([]kernel.UUID, 0, len(pending))
	var publishErr error
	for _, msg := range pending {
		if publishErr = h.publisher.Publish(ctx, msg); publishErr != nil {
			break
		}
		published = append(published, msg.ID)
	}

	if len(published) > 0 {
		if err = outboxRepo.MarkPublished(ctx, published, h.now()); err != nil {
			return 0, err
		}
		if err = uow.Commit(ctx); err != nil {
			return 0, err
		}
	}

	return len(published), publishErr
}
