package commands_test

import (
	"errors"
	"testing"

	"crmsync/internal/core/application/usecases/commands"
	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/domain/model/outbox"
	"crmsync/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pendingMessages(n int) []outbox.Message {
	msgs := make([]outbox.Message, 0, n)
	for i := 0; i < n; i++ {
		msgs = append(msgs, outbox.Message{
			ID:          kernel.NewUUID(),
			Name:        "order.status_changed",
			AggregateID: 7,
			Payload:     []byte(`{}`),
			OccurredAt:  fixedNow,
		})
	}
	return msgs
}

func TestNewRelayOutboxCommand(t *testing.T) {
	cmd, err := commands.NewRelayOutboxCommand(50)
	require.NoError(t, err)
	assert.Equal(t, 50, cmd.BatchSize())

	_, err = commands.NewRelayOutboxCommand(0)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestRelayOutboxCommandHandler_Handle_PublishesBatch(t *testing.T) {
	ctx := t.Context()
	msgs := pendingMessages(2)
	cmd, _ := commands.NewRelayOutboxCommand(10)

	repo := new(MockOutboxRepository)
	publisher := new(MockEventPublisher)
	uow := new(MockOutboxUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OutboxRepository").Return(repo).Once(),
		repo.On("GetPending", ctx, 10).Return(msgs, nil).Once(),
		publisher.On("Publish", ctx, msgs[0]).Return(nil).Once(),
		publisher.On("Publish", ctx, msgs[1]).Return(nil).Once(),
		repo.On("MarkPublished", ctx, []kernel.UUID{msgs[0].ID, msgs[1].ID}, fixedNow).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockOutboxUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRelayOutboxCommandHandler(factory, publisher, clock)
	published, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 2, published)
	uow.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestRelayOutboxCommandHandler_Handle_PublishFailureKeepsRest(t *testing.T) {
	ctx := t.Context()
	msgs := pendingMessages(3)
	cmd, _ := commands.NewRelayOutboxCommand(10)

	repo := new(MockOutboxRepository)
	publisher := new(MockEventPublisher)
	uow := new(MockOutboxUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OutboxRepository").Return(repo).Once()
	repo.On("GetPending", ctx, 10).Return(msgs, nil).Once()
	publisher.On("Publish", ctx, msgs[0]).Return(nil).Once()
	publisher.On("Publish", ctx, msgs[1]).Return(errors.New("broker unavailable")).Once()
	repo.On("MarkPublished", ctx, []kernel.UUID{msgs[0].ID}, fixedNow).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockOutboxUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRelayOutboxCommandHandler(factory, publisher, clock)
	published, err := h.Handle(ctx, cmd)

	require.EqualError(t, err, "broker unavailable")
	assert.Equal(t, 1, published)
	publisher.AssertNotCalled(t, "Publish", ctx, msgs[2])
	uow.AssertExpectations(t)
}

func TestRelayOutboxCommandHandler_Handle_NothingPending(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewRelayOutboxCommand(10)

	repo := new(MockOutboxRepository)
	uow := new(MockOutboxUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OutboxRepository").Return(repo).Once()
	repo.On("GetPending", ctx, 10).Return([]outbox.Message{}, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockOutboxUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRelayOutboxCommandHandler(factory, new(MockEventPublisher), clock)
	published, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Zero(t, published)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
