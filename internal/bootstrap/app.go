package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/patternlife/internal/domain/pattern"
	"github.com/yanqian/patternlife/internal/domain/signal"
	"github.com/yanqian/patternlife/internal/infra/config"
)

const (
	warmupTimeout   = 15 * time.Second
	shutdownTimeout = 10 * time.Second
)

// App encapsulates the HTTP server lifecycle.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	server   *http.Server
	patterns pattern.Service
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, patterns pattern.Service) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, patterns: patterns}
}

// Run warms the result cache, starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	a.warmup(ctx)

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address, "dataset_driver", a.cfg.Dataset.Driver)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutdown signal received")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// warmup computes the ALL view once so dataset problems surface in the startup logs.
func (a *App) warmup(ctx context.Context) {
	if a.patterns == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, warmupTimeout)
	defer cancel()
	view, err := a.patterns.View(ctx, signal.All.String())
	if err != nil {
		a.logger.Warn("pattern warmup failed, serving anyway", "error", err)
		return
	}
	a.logger.Info("pattern warmup complete", "clusters", len(view.Clusters), "dates", len(view.LockedDates))
}
