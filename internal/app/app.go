// Package app assembles the reconciliation pipeline from configuration.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/cache"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/config"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/input"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/metrics"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/notify"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/repository"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/repository/postgres"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/service"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/shopify"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/suprides"
)

// Options adjust the pipeline for one process
type Options struct {
	DryRun     bool
	InputPath  string // overrides PRODUCTS_LIST_PATH when set
	Registerer prometheus.Registerer
	NoLedger   bool
	NoCache    bool
}

// App holds the wired pipeline. Ledger is nil when no database is configured.
type App struct {
	Reconciler *service.Reconciler
	Runner     *service.Runner
	Storefront service.Storefront // Shop, behind the snapshot cache when configured
	Shop       *shopify.Storefront
	Supplier   *suprides.Client
	Notifier   *notify.Discord
	Ledger     *repository.Ledger
	Metrics    *metrics.Metrics

	closers []func() error
}

// Build connects the optional backends and wires the reconciler and runner
func Build(ctx context.Context, cfg *config.Config, opts Options, logger *zap.Logger) (*App, error) {
	a := &App{}

	a.Supplier = suprides.NewClient(cfg.Suprides, logger)

	shop := shopify.NewStorefront(shopify.NewClient(cfg.Shopify, logger), cfg.Shopify.LocationID, logger)
	a.Shop = shop
	a.Storefront = shop
	if cfg.Redis.Addr != "" && !opts.NoCache {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("Snapshot cache unavailable, reading the storefront directly", zap.Error(err))
		} else {
			a.closers = append(a.closers, rdb.Close)
			a.Storefront = cache.NewCachedStorefront(shop, cache.NewSnapshotStore(rdb, cfg.Redis.SnapshotTTL), logger)
			logger.Info("Snapshot cache enabled", zap.Duration("ttl", cfg.Redis.SnapshotTTL))
		}
	}

	a.Notifier = notify.NewDiscord(cfg.Notify.DiscordWebhookURL, logger)
	if !a.Notifier.Enabled() {
		logger.Info("Discord notifications disabled (DISCORD_WEBHOOK_URL not set)")
	}

	if cfg.Database.Enabled() && !opts.NoLedger {
		db, err := openLedger(ctx, cfg.Database)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		a.Ledger = repository.NewLedger(postgres.NewRepositories(db, logger))
	}

	if opts.Registerer != nil {
		a.Metrics = metrics.New(opts.Registerer)
	}

	deps := service.Deps{
		Supplier:   a.Supplier,
		Storefront: a.Storefront,
		Notifier:   a.Notifier,
		Metrics:    a.Metrics,
	}
	if a.Ledger != nil {
		deps.Recorder = a.Ledger
	}

	dryRun := opts.DryRun || cfg.Sync.DryRun
	a.Reconciler = service.NewReconciler(deps, dryRun, logger)

	path := cfg.Sync.ProductsListPath
	if opts.InputPath != "" {
		path = opts.InputPath
	}
	a.Runner = service.NewRunner(a.Reconciler, input.FileSource(path), a.Notifier, logger)

	logger.Info("Sync pipeline ready",
		zap.String("products_list", path),
		zap.Bool("dry_run", dryRun),
		zap.Bool("ledger", a.Ledger != nil),
	)
	return a, nil
}

// Close releases the database and cache connections
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
	a.closers = nil
}

func openLedger(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := postgres.NewConnection(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect run ledger: %w", err)
	}
	if err := postgres.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate run ledger: %w", err)
	}
	return db, nil
}
