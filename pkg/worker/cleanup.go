package worker

import (
	"context"
	"time"

	"github.com/WinsonMARS/hospitalmanagement/internal/repository"
	"github.com/WinsonMARS/hospitalmanagement/pkg/logger"
)

// OutboxCleanupWorker purges processed events older than the retention
// window so the outbox table stays small.
type OutboxCleanupWorker struct {
	repo      repository.OutboxRepository
	retention time.Duration
	interval  time.Duration
	logger    *logger.Logger
}

func NewOutboxCleanupWorker(repo repository.OutboxRepository, retention, interval time.Duration, logger *logger.Logger) *OutboxCleanupWorker {
	return &OutboxCleanupWorker{
		repo:      repo,
		retention: retention,
		interval:  interval,
		logger:    logger,
	}
}

func (w *OutboxCleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-w.retention)
			deleted, err := w.repo.DeleteProcessedBefore(ctx, cutoff)
			if err != nil {
				w.logger.Error(err, "outbox cleanup failed")
				continue
			}
			if deleted > 0 {
				w.logger.Info("outbox cleanup", "deleted", deleted)
			}
		}
	}
}
