// Package jobs provides scheduled background tasks for the CRM order sync service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// around the transactional outbox written by the order command handlers.
//
// # Available Jobs
//
// 1. OutboxRelayJob - publishes pending status-change events to the broker, oldest first
// 2. OutboxCleanupJob - deletes events published longer ago than the retention
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(relayHandler, purgeHandler, jobs.Schedules{
//		RelaySchedule:   "*/5 * * * * *",
//		RelayBatchSize:  100,
//		CleanupSchedule: "0 0 3 * * *",
//		Retention:       7 * 24 * time.Hour,
//	}, m, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Expressions carry a seconds field. Relay runs never overlap. Several instances
// can relay at once because pending events are locked with SKIP LOCKED.
//
// # Error Handling
//
// - A failed relay keeps the unpublished events pending for the next run
// - Failed job starts will stop any already running jobs
package jobs
