package scheduler

import (
	"context"
	"log/slog"
	"time"

	"GeoWatch/internal/storage"
)

// Sweeper периодически удаляет строки старше окна хранения.
// Работает независимо от пути записи: его сбои только логируются.
type Sweeper struct {
	pingStore storage.PingLogStore
	httpStore storage.HTTPLogStore
	retention time.Duration
	period    time.Duration
	logger    *slog.Logger
}

func NewSweeper(pingStore storage.PingLogStore, httpStore storage.HTTPLogStore, retentionDays int, period time.Duration, logger *slog.Logger) *Sweeper {
	if period <= 0 {
		period = 24 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Sweeper{
		pingStore: pingStore,
		httpStore: httpStore,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		period:    period,
		logger:    logger,
	}
}

// Run чистит один раз сразу при старте, затем по фиксированному периоду
func (w *Sweeper) Run(ctx context.Context) {
	w.sweep(ctx)

	ticker := time.NewTicker(w.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *Sweeper) sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-w.retention)

	pingDeleted, err := w.pingStore.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		w.logger.Error("failed to sweep ping logs", "error", err)
	}

	httpDeleted, err := w.httpStore.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		w.logger.Error("failed to sweep http logs", "error", err)
	}

	w.logger.Info("retention sweep completed",
		"cutoff", cutoff,
		"ping_rows_deleted", pingDeleted,
		"http_rows_deleted", httpDeleted,
	)
}
