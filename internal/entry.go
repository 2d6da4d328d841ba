// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/buildcache"
	"github.com/starford/ansuz/internal/gitmeta"
	"github.com/starford/ansuz/internal/preview"
	"github.com/starford/ansuz/internal/publish"
	"github.com/starford/ansuz/internal/storage"
)

// Run executes the build pipeline with the given options: one pass over
// the input directory, then optionally a watch loop.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config
	logger := newLogger(cfg)

	logger.Info("Configuration loaded",
		slog.String("input_path", cfg.Content.InputPath),
		slog.String("output_path", cfg.Content.OutputPath),
		slog.String("cache_path", cfg.Cache.Path),
		slog.Bool("git_enabled", cfg.Git.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Input must exist; output is created on demand.
	in, err := storage.NewFS(cfg.Content.InputPath, cfg.Content.Extension)
	if err != nil {
		return fmt.Errorf("init input storage: %w", err)
	}
	out, err := storage.EnsureFS(cfg.Content.OutputPath, cfg.Content.Extension)
	if err != nil {
		return fmt.Errorf("init output storage: %w", err)
	}

	cache, err := buildcache.Open(cfg.Cache.Path)
	if err != nil {
		return fmt.Errorf("init build cache: %w", err)
	}
	defer cache.Close()

	var dates publish.DateSource
	if cfg.Git.Enabled {
		dates = gitmeta.NewSource(in.Root(), cfg.Git.Timeout)
	}

	svc := publish.NewService(in, out, cache, dates, logger)

	built, err := svc.BuildAll(ctx)
	if err != nil {
		logger.Error("Build failed",
			slog.Int("posts", built), slog.String("error", err.Error()))
		return err
	}
	logger.Info("Build finished", slog.Int("posts", built))

	if !app.watch {
		return nil
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(watchCtx)

	g.Go(func() error {
		return svc.Watch(gCtx, in.Root())
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Watch error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Pipeline stopped successfully")
	return nil
}

// RunServe starts the local preview server over the output directory.
func RunServe(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config
	logger := newLogger(cfg)

	httpServer := &http.Server{
		Addr:    cfg.App.Preview.Address(),
		Handler: preview.Handler(cfg.Content.OutputPath),
	}

	logger.Info("Preview server starting",
		slog.String("address", cfg.App.Preview.Address()),
		slog.String("output_path", cfg.Content.OutputPath))

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("preview server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Preview server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Preview server error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Preview server stopped successfully")
	return nil
}

// newLogger initializes the structured JSON logger and installs it as the
// process default.
func newLogger(cfg *Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}
