package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/rickgao/shopwatch/internal/config"
	"github.com/rickgao/shopwatch/internal/database"
	"github.com/rickgao/shopwatch/internal/ingest"
	"github.com/rickgao/shopwatch/internal/model"
	"github.com/rickgao/shopwatch/internal/monitor"
	"github.com/rickgao/shopwatch/internal/shopify"
	"github.com/rickgao/shopwatch/internal/store"
	"github.com/rickgao/shopwatch/internal/version"
)

// One-shot catalog scan. Scans a single company by id, or every active
// company when -company is omitted. Useful for cron and for backfills.
func main() {
	configPath := flag.String("config", "configs/server.local.yaml", "path to config file")
	companyID := flag.Int64("company", 0, "company id to scan (0 = all active companies)")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall deadline")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting scan",
		"version", version.Version,
		"config", *configPath,
		"company", *companyID,
	)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	configs := store.NewMonitoringStore(pool)
	orchestrator := ingest.New(pool, logger)
	catalog := shopify.NewClient(
		shopify.WithLogger(logger),
		shopify.WithTimeout(cfg.Shopify.Timeout),
		shopify.WithRetries(cfg.Shopify.MaxRetries, cfg.Shopify.RetryBackoff),
		shopify.WithPageSize(cfg.Shopify.PageSize),
	)
	scanner := monitor.NewScanner(catalog, orchestrator, configs, logger)

	var targets []model.ActiveCompany
	if *companyID > 0 {
		company, err := configs.ActiveCompany(ctx, *companyID)
		if err != nil {
			logger.Error("company not active or not found", "company_id", *companyID, "error", err)
			os.Exit(1)
		}
		targets = []model.ActiveCompany{*company}
	} else {
		targets, err = configs.ActiveCompanies(ctx)
		if err != nil {
			logger.Error("failed to list active companies", "error", err)
			os.Exit(1)
		}
	}

	failed := 0
	for _, company := range targets {
		result, err := scanner.ScanCompany(ctx, company)
		if err != nil {
			logger.Error("scan failed",
				"company_id", company.ID,
				"company", company.Name,
				"error", err,
			)
			failed++
			continue
		}
		logger.Info("scan complete",
			"company_id", company.ID,
			"company", company.Name,
			"added", result.Added,
			"skipped", result.Skipped,
		)
	}

	if failed > 0 {
		logger.Error("scan finished with failures", "failed", failed, "total", len(targets))
		os.Exit(1)
	}
	logger.Info("scan finished", "companies", len(targets))
}
