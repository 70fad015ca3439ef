package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Ticker receives the shared kitchen clock.
type Ticker interface {
	Tick(now time.Time)
}

// KitchenClockJob drives the one clock every kitchen board view refreshes
// its elapsed times and freshness from. Runs every second.
type KitchenClockJob struct {
	ticker Ticker
	clock  func() time.Time
	cron   *cron.Cron
	logger *slog.Logger
}

func NewKitchenClockJob(ticker Ticker, clock func() time.Time, logger *slog.Logger) *KitchenClockJob {
	return &KitchenClockJob{
		ticker: ticker,
		clock:  clock,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.With("component", "kitchen_clock_job"),
	}
}

// Start begins ticking every second.
func (j *KitchenClockJob) Start() error {
	if _, err := j.cron.AddFunc("* * * * * *", j.Run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Kitchen clock job started (running every second)")
	return nil
}

// Run performs one tick.
func (j *KitchenClockJob) Run() {
	j.ticker.Tick(j.clock())
}

func (j *KitchenClockJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Kitchen clock job stopped")
}
