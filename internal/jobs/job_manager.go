package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"crmsync/internal/pkg/metrics"
)

// Schedules holds the cron expressions and limits of the outbox jobs.
type Schedules struct {
	RelaySchedule   string
	RelayBatchSize  int
	CleanupSchedule string
	Retention       time.Duration
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	outboxRelayJob   *OutboxRelayJob
	outboxCleanupJob *OutboxCleanupJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	relayHandler RelayOutboxHandler,
	purgeHandler PurgeOutboxHandler,
	schedules Schedules,
	m *metrics.Metrics,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		outboxRelayJob:   NewOutboxRelayJob(relayHandler, schedules.RelaySchedule, schedules.RelayBatchSize, m, logger),
		outboxCleanupJob: NewOutboxCleanupJob(purgeHandler, schedules.CleanupSchedule, schedules.Retention, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.outboxRelayJob.Start(); err != nil {
		return fmt.Errorf("failed to start outbox relay job: %w", err)
	}

	if err := jm.outboxCleanupJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.outboxRelayJob.Stop()
		return fmt.Errorf("failed to start outbox cleanup job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.outboxCleanupJob.Stop()
	jm.outboxRelayJob.Stop()
}
