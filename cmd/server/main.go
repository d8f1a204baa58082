package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/api"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/app"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/config"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	zl, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	zl.Info("Starting catalog sync server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.Duration("interval", cfg.Sync.Interval),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pipeline, err := app.Build(ctx, cfg, app.Options{Registerer: prometheus.DefaultRegisterer}, zl)
	if err != nil {
		zl.Fatal("Failed to build sync pipeline", zap.Error(err))
	}
	defer pipeline.Close()

	deps := api.Deps{
		Runner:    pipeline.Runner,
		Previewer: pipeline.Reconciler,
		Gatherer:  prometheus.DefaultGatherer,
	}
	if pipeline.Ledger != nil {
		deps.History = pipeline.Ledger
	}

	router := api.NewRouter(cfg, deps, zl)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Catalog sync: run once on startup, then every SYNC_INTERVAL
	go pipeline.Runner.Loop(ctx, cfg.Sync.Interval)
	zl.Info("Catalog sync job started", zap.Duration("interval", cfg.Sync.Interval))

	zl.Info("Server started successfully", zap.String("address", srv.Addr))

	<-ctx.Done()
	zl.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("Server forced to shutdown", zap.Error(err))
	}

	zl.Info("Server exited")
}
