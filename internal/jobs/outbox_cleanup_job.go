package jobs

import (
	"context"
	"log/slog"
	"time"

	"crmsync/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

type PurgeOutboxHandler interface {
	Handle(ctx context.Context, cmd commands.PurgeOutboxCommand) (int64, error)
}

// OutboxCleanupJob deletes published outbox events older than the retention.
type OutboxCleanupJob struct {
	handler   PurgeOutboxHandler
	schedule  string
	retention time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewOutboxCleanupJob(handler PurgeOutboxHandler, schedule string, retention time.Duration, logger *slog.Logger) *OutboxCleanupJob {
	return &OutboxCleanupJob{
		handler:   handler,
		schedule:  schedule,
		retention: retention,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "outbox_cleanup_job"),
	}
}

// Start schedules the job.
func (j *OutboxCleanupJob) Start() error {
	cmd, err := commands.NewPurgeOutboxCommand(j.retention)
	if err != nil {
		return err
	}

	if _, err = j.cron.AddFunc(j.schedule, func() {
		j.run(context.Background(), cmd)
	}); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox cleanup job started", "schedule", j.schedule, "retention", j.retention)
	return nil
}

func (j *OutboxCleanupJob) run(ctx context.Context, cmd commands.PurgeOutboxCommand) {
	deleted, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Outbox cleanup job failed", "error", err)
		return
	}
	if deleted > 0 {
		j.logger.InfoContext(ctx, "Published outbox events purged", "deleted", deleted)
	}
}

// Stop stops the job.
func (j *OutboxCleanupJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Outbox cleanup job stopped")
}
