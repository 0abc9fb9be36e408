package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erazemk/zaloga/internal/api"
	"github.com/erazemk/zaloga/internal/config"
	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/imagestore"
	"github.com/erazemk/zaloga/internal/imaging"
	"github.com/erazemk/zaloga/internal/metrics"
	"github.com/erazemk/zaloga/internal/web"
)

// newHandler builds the full HTTP handler: the JSON API and static images,
// with the HTML index page on the root path.
func newHandler(cfg *config.Config, database *db.DB) (http.Handler, error) {
	images, err := imagestore.NewLocal(cfg.ImageDir)
	if err != nil {
		return nil, err
	}

	placeholder, err := imaging.Placeholder(cfg.PlaceholderSize)
	if err != nil {
		return nil, fmt.Errorf("rendering placeholder image: %w", err)
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New(metrics.WithRuntimeMetrics())
	}

	apiRouter := api.NewRouter(api.Config{
		DB:             database,
		Images:         images,
		Metrics:        m,
		Placeholder:    placeholder,
		MaxUploadBytes: cfg.MaxUploadBytes(),
	})
	webRouter, err := web.NewRouter(database)
	if err != nil {
		return nil, fmt.Errorf("setting up web router: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /{$}", webRouter)
	mux.Handle("/", apiRouter)

	return api.RequestIDMiddleware(api.LoggingMiddleware(api.CORSMiddleware(cfg.CORSOrigin)(mux))), nil
}

func serve(ctx context.Context, cfg *config.Config, database *db.DB) error {
	if err := db.Migrate(database); err != nil {
		return err
	}
	slog.Info("database ready", "driver", database.Driver, "dsn", redactDSN(cfg))

	handler, err := newHandler(cfg, database)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server started", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped, closing database")
	return nil
}

// redactDSN hides Postgres credentials in log output.
func redactDSN(cfg *config.Config) string {
	if cfg.Driver() == db.DriverSQLite {
		return cfg.DBDSN
	}
	u, err := url.Parse(cfg.DBDSN)
	if err != nil || u.Scheme == "" {
		return "(postgres)"
	}
	return u.Redacted()
}
