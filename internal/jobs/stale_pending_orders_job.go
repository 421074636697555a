package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"storefront/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultStalePendingSchedule runs the sweep at the start of every minute.
const DefaultStalePendingSchedule = "0 * * * * *"

type (
	StalePendingOrdersHandler interface {
		Handle(ctx context.Context, cmd commands.CancelStalePendingOrdersCommand) (int, error)
	}

	StaleRunObserver interface {
		ObserveStaleRun(cancelled int)
	}
)

// StalePendingOrdersJob cancels orders that stayed pending longer than the
// configured TTL. Overlapping runs are skipped.
type StalePendingOrdersJob struct {
	handler  StalePendingOrdersHandler
	observer StaleRunObserver
	cmd      commands.CancelStalePendingOrdersCommand
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func NewStalePendingOrdersJob(
	handler StalePendingOrdersHandler,
	observer StaleRunObserver,
	schedule string,
	ttl time.Duration,
	batchSize int,
	logger *slog.Logger,
) (*StalePendingOrdersJob, error) {
	cmd, err := commands.NewCancelStalePendingOrdersCommand(ttl, batchSize)
	if err != nil {
		return nil, err
	}

	if schedule == "" {
		schedule = DefaultStalePendingSchedule
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &StalePendingOrdersJob{
		handler:  handler,
		observer: observer,
		cmd:      cmd,
		schedule: schedule,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger: logger.With("component", "stale_pending_orders_job"),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Start schedules the sweep. It fails when the schedule cannot be parsed.
func (j *StalePendingOrdersJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { _, _ = j.RunOnce(j.ctx) }); err != nil {
		return fmt.Errorf("schedule %q: %w", j.schedule, err)
	}

	j.cron.Start()
	j.logger.InfoContext(j.ctx, "Stale pending orders job started",
		"schedule", j.schedule,
		"ttl", j.cmd.TTL().String(),
		"batch_size", j.cmd.BatchSize(),
	)
	return nil
}

// RunOnce performs a single sweep and reports how many orders it cancelled.
func (j *StalePendingOrdersJob) RunOnce(ctx context.Context) (int, error) {
	cancelled, err := j.handler.Handle(ctx, j.cmd)

	if j.observer != nil {
		j.observer.ObserveStaleRun(cancelled)
	}

	if err != nil {
		j.logger.ErrorContext(ctx, "Stale pending orders sweep failed", "cancelled", cancelled, "error", err)
		return cancelled, err
	}

	if cancelled > 0 {
		j.logger.InfoContext(ctx, "Cancelled stale pending orders", "cancelled", cancelled)
	}
	return cancelled, nil
}

// Stop aborts an in-flight sweep and waits for it to return.
func (j *StalePendingOrdersJob) Stop() {
	j.cancel()
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Stale pending orders job stopped")
}
