package jobs

import (
	"context"
	"log/slog"

	"pos/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// SalesRetryBatchSize is how many spooled sales one run appends at most.
const SalesRetryBatchSize = 50

// SalesRetryJob appends sales that failed to reach sales history when they
// were finalized. Runs every 30 seconds.
type SalesRetryJob struct {
	handler commands.RetrySpooledSalesCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

func NewSalesRetryJob(handler commands.RetrySpooledSalesCommandHandler, logger *slog.Logger) *SalesRetryJob {
	return &SalesRetryJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:  logger.With("component", "sales_retry_job"),
	}
}

// Start schedules the retry every 30 seconds.
func (j *SalesRetryJob) Start() error {
	if _, err := j.cron.AddFunc("*/30 * * * * *", func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Sales retry job started (running every 30 seconds)")
	return nil
}

// Run retries one batch.
func (j *SalesRetryJob) Run(ctx context.Context) {
	cmd, err := commands.NewRetrySpooledSalesCommand(SalesRetryBatchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Sales retry job misconfigured", "error", err)
		return
	}

	recorded, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Sales retry job failed", "error", err)
		return
	}
	if recorded > 0 {
		j.logger.InfoContext(ctx, "Spooled sales recorded", "count", recorded)
	}
}

func (j *SalesRetryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Sales retry job stopped")
}
