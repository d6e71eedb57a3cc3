package archive

import (
	"context"
	"time"

	"board-sync/feature/board"

	"go.uber.org/zap"
)

// Worker keeps the latest snapshot object in step with the board. It remembers the
// newest broadcast snapshot and flushes it once per interval.
type Worker struct {
	archiver *Archiver
	updates  <-chan *board.Snapshot
	interval time.Duration
	logger   *zap.Logger
}

// NewWorker creates a worker consuming updates, typically a hub subscription.
func NewWorker(archiver *Archiver, updates <-chan *board.Snapshot, interval time.Duration, logger *zap.Logger) *Worker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Worker{
		archiver: archiver,
		updates:  updates,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks until ctx is done or updates is closed, then flushes what is pending.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	pending, err := w.archiver.snapshots.Build(ctx)
	if err != nil {
		w.logger.Warn("Failed to read initial snapshot", zap.Error(err))
	}

	for {
		select {
		case snap, ok := <-w.updates:
			if !ok {
				w.flush(context.Background(), pending)
				return
			}
			pending = snap
		case <-ticker.C:
			if w.flush(ctx, pending) {
				pending = nil
			}
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			w.flush(flushCtx, pending)
			cancel()
			return
		}
	}
}

// flush reports whether snap no longer needs writing.
func (w *Worker) flush(ctx context.Context, snap *board.Snapshot) bool {
	if snap == nil {
		return true
	}
	written, err := w.archiver.WriteLatest(ctx, snap)
	if err != nil {
		w.logger.Error("Failed to write latest snapshot", zap.Error(err))
		return false
	}
	if written {
		w.logger.Debug("Wrote latest snapshot", zap.String("key", w.archiver.LatestKey()))
	}
	return true
}
