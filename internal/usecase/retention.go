package usecase

import (
	"context"
	"log/slog"
	"time"

	"StartupPredictor/internal/ports"
)

// Retention prunes the submission history on a schedule.
type Retention struct {
	driver ports.Scheduler
	pruner ports.HistoryPruner
	maxAge time.Duration
	logger *slog.Logger
}

// NewRetention returns a job removing records older than maxAge. A zero
// maxAge or missing collaborator disables it.
func NewRetention(driver ports.Scheduler, pruner ports.HistoryPruner, maxAge time.Duration, logger *slog.Logger) *Retention {
	return &Retention{driver: driver, pruner: pruner, maxAge: maxAge, logger: logger}
}

// Enabled reports whether Start will schedule anything.
func (r *Retention) Enabled() bool {
	return r.driver != nil && r.pruner != nil && r.maxAge > 0
}

// Start registers the prune job with the scheduler.
func (r *Retention) Start(ctx context.Context) error {
	if !r.Enabled() {
		return nil
	}
	return r.driver.Start(ctx, func(now time.Time) {
		_, _ = r.PruneOnce(ctx, now)
	})
}

// Stop tears down the underlying scheduler.
func (r *Retention) Stop(ctx context.Context) error {
	if r.driver == nil {
		return nil
	}
	return r.driver.Stop(ctx)
}

// PruneOnce deletes records created before now minus the retention window.
func (r *Retention) PruneOnce(ctx context.Context, now time.Time) (int64, error) {
	if r.pruner == nil || r.maxAge <= 0 {
		return 0, nil
	}
	cutoff := now.Add(-r.maxAge)
	removed, err := r.pruner.Prune(ctx, cutoff)
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("prune history", "cutoff", cutoff, "error", err)
		}
		return 0, err
	}
	if removed > 0 && r.logger != nil {
		r.logger.Info("pruned history", "removed", removed, "cutoff", cutoff)
	}
	return removed, nil
}
