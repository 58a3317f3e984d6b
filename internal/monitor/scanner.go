package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rickgao/shopwatch/internal/ingest"
	"github.com/rickgao/shopwatch/internal/model"
	"github.com/rickgao/shopwatch/internal/shopify"
	"github.com/rickgao/shopwatch/internal/store"
)

// ErrNoDomain is returned when a company has no storefront domain to scan.
var ErrNoDomain = errors.New("company has no domain")

// Scanner runs one catalog scan end to end: fetch, convert, ingest,
// stamp last_monitored.
type Scanner struct {
	catalog *shopify.Client
	orch    *ingest.Orchestrator
	configs *store.MonitoringStore
	logger  *slog.Logger
}

// NewScanner creates a Scanner.
func NewScanner(catalog *shopify.Client, orch *ingest.Orchestrator, configs *store.MonitoringStore, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		catalog: catalog,
		orch:    orch,
		configs: configs,
		logger:  logger,
	}
}

// ScanCompany fetches a company's catalog and bulk-ingests it.
// Duplicates from earlier scans are skipped by the orchestrator.
func (s *Scanner) ScanCompany(ctx context.Context, company model.ActiveCompany) (*ingest.ProductBatchResult, error) {
	if company.Domain == nil || *company.Domain == "" {
		return nil, fmt.Errorf("scan company %d: %w", company.ID, ErrNoDomain)
	}

	products, err := s.catalog.FetchCatalog(ctx, *company.Domain, company.MaxProducts)
	if err != nil {
		return nil, fmt.Errorf("scan company %d: %w", company.ID, err)
	}

	inputs := shopify.ConvertCatalog(products, company.ID, *company.Domain, company.DaysBack, time.Now())

	result, err := s.orch.BulkProducts(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("scan company %d: %w", company.ID, err)
	}

	if err := s.configs.TouchLastMonitored(ctx, company.ID); err != nil {
		s.logger.Warn("failed to stamp last_monitored",
			"company_id", company.ID,
			"err", err,
		)
	}

	s.logger.Info("company scanned",
		"company_id", company.ID,
		"company", company.Name,
		"added", result.Added,
		"skipped", result.Skipped,
	)
	return result, nil
}
