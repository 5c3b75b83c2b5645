// Package reconciler periodically removes schedule entries whose profile no
// longer exists. The unlink cascade is transactional, but entries written by
// older deployments or restored from partial backups can still be orphaned.
package reconciler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/example/oncall-dispatch/internal/metrics"
)

// Store captures the persistence interaction needed by the reconciler.
type Store interface {
	DeleteOrphanedEntries(ctx context.Context) (int64, error)
}

// Reconciler runs the orphan cleanup pass on a cron schedule.
type Reconciler struct {
	store   Store
	cron    *cron.Cron
	logger  *slog.Logger
	metrics metrics.Sink
	timeout time.Duration
}

// New wires a Reconciler. Call Start to begin scheduled runs.
func New(store Store, sink metrics.Sink, logger *slog.Logger) *Reconciler {
	if sink == nil {
		sink = metrics.NewNoopSink()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		store:   store,
		cron:    cron.New(),
		logger:  logger,
		metrics: sink,
		timeout: 30 * time.Second,
	}
}

// Start schedules the cleanup pass using a cron expression and begins running.
func (r *Reconciler) Start(schedule string) error {
	_, err := r.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if _, err := r.RunOnce(ctx); err != nil {
			r.logger.Error("reconciliation pass failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return fmt.Errorf("reconciler: invalid schedule %q: %w", schedule, err)
	}
	r.cron.Start()
	return nil
}

// Stop halts scheduled runs and waits for an in-flight pass to finish.
func (r *Reconciler) Stop() {
	<-r.cron.Stop().Done()
}

// RunOnce performs one cleanup pass and returns the number of entries removed.
func (r *Reconciler) RunOnce(ctx context.Context) (int64, error) {
	deleted, err := r.store.DeleteOrphanedEntries(ctx)
	if err != nil {
		return 0, fmt.Errorf("reconciler: delete orphaned entries: %w", err)
	}
	r.metrics.OrphanedEntriesDeleted(deleted)
	if deleted > 0 {
		r.logger.Info("deleted orphaned schedule entries", slog.Int64("count", deleted))
	}
	return deleted, nil
}
