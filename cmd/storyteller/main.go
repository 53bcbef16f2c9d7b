// Package main boots the moodtales story service.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"

	"github.com/easeaico/moodtales/internal/api"
	"github.com/easeaico/moodtales/internal/app"
	"github.com/easeaico/moodtales/internal/config"
)

const (
	sentryFlushTimeout = 2 * time.Second
	shutdownTimeout    = 10 * time.Second
)

// releaseVersion is set via ldflags during build.
var releaseVersion = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	slog.Info("configuration loaded",
		"environment", cfg.Environment,
		"classifier_backend", cfg.ClassifierBackend,
		"generator_backend", cfg.GeneratorBackend,
		"generator_model", cfg.GeneratorModel)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
			Release:     "moodtales@" + releaseVersion,
			Debug:       !cfg.IsProduction(),
		}); err != nil {
			slog.Warn("failed to initialize sentry", "error", err.Error())
		} else {
			defer sentry.Flush(sentryFlushTimeout)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatalf("failed to initialize story router: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.SetupRouter(application.Router, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr, "version", releaseVersion)
		errCh <- srv.ListenAndServe()
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-ctx.Done():
		slog.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err.Error())
	}
	if err := application.Close(shutdownCtx); err != nil {
		slog.Error("failed to release resources", "error", err.Error())
	}

	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		sentry.CaptureException(serveErr)
		sentry.Flush(sentryFlushTimeout)
		log.Fatalf("server failed: %v", serveErr)
	}
	slog.Info("server shutdown complete")
}
