// Package jobs provides scheduled background tasks for the storefront.
//
// Jobs are cron-based, using github.com/robfig/cron/v3 with a seconds field.
//
// # Available Jobs
//
// StalePendingOrdersJob cancels orders that have been pending for longer
// than a configured TTL. Each order is cancelled in its own transaction, so
// an order that moves on while the sweep runs is simply skipped.
//
// # Usage
//
//	job, err := jobs.NewStalePendingOrdersJob(handler, orderMetrics, "0 * * * * *", 30*time.Minute, 100, logger)
//	if err != nil {
//		return err
//	}
//
//	jobManager := jobs.NewJobManager(job)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed sweep is logged and retried on the next tick. Failed job starts
// stop any already running jobs.
package jobs
