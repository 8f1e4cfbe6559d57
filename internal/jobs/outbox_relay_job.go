package jobs

import (
	"context"
	"log/slog"

	"crmsync/internal/core/application/usecases/commands"
	"crmsync/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

type RelayOutboxHandler interface {
	Handle(ctx context.Context, cmd commands.RelayOutboxCommand) (int, error)
}

// OutboxRelayJob publishes pending outbox events on a schedule.
// cron.SkipIfStillRunning keeps runs from overlapping.
type OutboxRelayJob struct {
	handler   RelayOutboxHandler
	schedule  string
	batchSize int
	metrics   *metrics.Metrics
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewOutboxRelayJob creates a relay job. schedule is a cron expression with a
// seconds field.
func NewOutboxRelayJob(
	handler RelayOutboxHandler,
	schedule string,
	batchSize int,
	m *metrics.Metrics,
	logger *slog.Logger,
) *OutboxRelayJob {
	logger = logger.With("component", "outbox_relay_job")
	return &OutboxRelayJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		metrics:   m,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger: logger,
	}
}

// Start schedules the job.
func (j *OutboxRelayJob) Start() error {
	cmd, err := commands.NewRelayOutboxCommand(j.batchSize)
	if err != nil {
		return err
	}

	if _, err = j.cron.AddFunc(j.schedule, func() {
		j.run(context.Background(), cmd)
	}); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox relay job started", "schedule", j.schedule, "batch_size", j.batchSize)
	return nil
}

func (j *OutboxRelayJob) run(ctx context.Context, cmd commands.RelayOutboxCommand) {
	published, err := j.handler.Handle(ctx, cmd)
	j.metrics.OutboxPublished(published)

	if err != nil {
		j.logger.ErrorContext(ctx, "Outbox relay job failed", "published", published, "error", err)
		return
	}
	if published > 0 {
		j.logger.DebugContext(ctx, "Outbox events published", "published", published)
	}
}

// Stop stops the job and waits for a running relay to finish.
func (j *OutboxRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Outbox relay job stopped")
}
