package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"pos/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	kitchenClockJob *KitchenClockJob
	salesRetryJob   *SalesRetryJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	ticker Ticker,
	retryHandler commands.RetrySpooledSalesCommandHandler,
	clock func() time.Time,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		kitchenClockJob: NewKitchenClockJob(ticker, clock, logger),
		salesRetryJob:   NewSalesRetryJob(retryHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.kitchenClockJob.Start(); err != nil {
		return fmt.Errorf("failed to start kitchen clock job: %w", err)
	}

	if err := jm.salesRetryJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.kitchenClockJob.Stop()
		return fmt.Errorf("failed to start sales retry job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.salesRetryJob.Stop()
	jm.kitchenClockJob.Stop()
}
