// Package jobs provides scheduled background tasks for the POS.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. KitchenClockJob - Ticks every second; every kitchen board view derives
// elapsed time and freshness from this one clock instead of its own timer
// 2. SalesRetryJob - Runs every 30 seconds to append spooled sales to sales history
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(ticker, retryHandler, time.Now, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - The kitchen clock cannot fail
// - The retry job logs failures and tries again on its next run; a sale stays
// spooled until sales history accepted it
// - Failed job starts will stop any already running jobs
package jobs
