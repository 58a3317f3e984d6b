package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/shopwatch/internal/config"
	"github.com/rickgao/shopwatch/internal/database"
	"github.com/rickgao/shopwatch/internal/ingest"
	"github.com/rickgao/shopwatch/internal/model"
	"github.com/rickgao/shopwatch/internal/monitor"
	"github.com/rickgao/shopwatch/internal/schema"
	"github.com/rickgao/shopwatch/internal/server"
	"github.com/rickgao/shopwatch/internal/shopify"
	"github.com/rickgao/shopwatch/internal/store"
	"github.com/rickgao/shopwatch/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/server.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting server",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Converge the schema before serving traffic.
	statuses, err := schema.Bootstrap(ctx, pool, logger)
	if err != nil {
		logger.Error("failed to bootstrap schema", "error", err)
		os.Exit(1)
	}
	for _, ts := range statuses {
		logger.Info("schema object ready", "table", ts.Table, "status", ts.Status)
	}

	// Wire up stores and the ingest orchestrator
	companies := store.NewCompanyStore(pool)
	products := store.NewProductStore(pool)
	configs := store.NewMonitoringStore(pool)
	orchestrator := ingest.New(pool, logger)

	// Shopify storefront client
	catalog := shopify.NewClient(
		shopify.WithLogger(logger),
		shopify.WithTimeout(cfg.Shopify.Timeout),
		shopify.WithRetries(cfg.Shopify.MaxRetries, cfg.Shopify.RetryBackoff),
		shopify.WithPageSize(cfg.Shopify.PageSize),
	)
	scanner := monitor.NewScanner(catalog, orchestrator, configs, logger)

	srv := server.New(cfg.Server, server.Deps{
		Companies: companies,
		Products:  products,
		Configs:   configs,
		Ingestor:  orchestrator,
		Scanner:   scanner,
		Bootstrap: func(ctx context.Context) ([]schema.TableStatus, error) {
			return schema.Bootstrap(ctx, pool, logger)
		},
		Stats: func(ctx context.Context) (*model.Stats, error) {
			return store.Stats(ctx, pool)
		},
		DB: pool,
	}, logger)

	// Background monitor scheduler
	var scheduler *monitor.Scheduler
	if cfg.Monitor.Enabled {
		scheduler = monitor.NewScheduler(monitor.Config{
			Interval:    cfg.Monitor.Interval,
			Concurrency: cfg.Monitor.Concurrency,
			ScanTimeout: cfg.Monitor.ScanTimeout,
		}, configs, scanner, logger)
		if err := scheduler.Start(ctx); err != nil {
			logger.Error("failed to start monitor scheduler", "error", err)
			os.Exit(1)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if scheduler != nil {
			if err := scheduler.Stop(shutdownCtx); err != nil {
				logger.Warn("monitor scheduler shutdown", "error", err)
			}
		}
		return srv.Stop(shutdownCtx)
	})

	logger.Info("server running",
		"port", cfg.Server.Port,
		"monitor_enabled", cfg.Monitor.Enabled,
	)

	if err := g.Wait(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
