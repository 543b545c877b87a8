package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// CatalogRefreshConfig holds settings for the catalog refresh worker.
type CatalogRefreshConfig struct {
	Interval time.Duration
	Timeout  time.Duration
}

// CatalogRefreshWorker periodically reloads the catalog so edits to the
// backing store reach the engines without a restart.
type CatalogRefreshWorker struct {
	catalog CatalogService
	cfg     CatalogRefreshConfig
	log     *zap.Logger
}

// NewCatalogRefreshWorker creates a new CatalogRefreshWorker.
func NewCatalogRefreshWorker(catalog CatalogService, cfg CatalogRefreshConfig, log *zap.Logger) *CatalogRefreshWorker {
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	return &CatalogRefreshWorker{
		catalog: catalog,
		cfg:     cfg,
		log:     log.With(zap.String("component", "catalogRefreshWorker")),
	}
}

// Start runs the refresh loop until ctx is canceled. A failed refresh keeps the
// previous engines live and is retried on the next tick.
func (w *CatalogRefreshWorker) Start(ctx context.Context) {
	if w.cfg.Interval <= 0 {
		w.log.Info("disabled (no refresh interval)")
		return
	}
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	w.log.Info("started", zap.Duration("interval", w.cfg.Interval))

	for {
		select {
		case <-ctx.Done():
			w.log.Info("shutdown complete")
			return
		case <-ticker.C:
			refreshCtx, cancel := context.WithTimeout(ctx, w.cfg.Timeout)
			stats, err := w.catalog.Refresh(refreshCtx)
			cancel()
			if err != nil {
				if ctx.Err() != nil {
					// Context canceled during refresh; exit on the next select.
					continue
				}
				w.log.Error("refresh failed", zap.Error(err))
				continue
			}
			w.log.Debug("refreshed", zap.String("version", stats.Version))
		}
	}
}
