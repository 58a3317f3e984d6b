package monitor

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rickgao/shopwatch/internal/ingest"
	"github.com/rickgao/shopwatch/internal/model"
)

// CompanySource lists companies eligible for scanning.
type CompanySource interface {
	ActiveCompanies(ctx context.Context) ([]model.ActiveCompany, error)
}

// CompanyScanner scans one company's catalog.
type CompanyScanner interface {
	ScanCompany(ctx context.Context, company model.ActiveCompany) (*ingest.ProductBatchResult, error)
}

// Config holds scheduler configuration.
type Config struct {
	Interval    time.Duration // wake-up interval (default: 1h)
	Concurrency int           // max concurrent scans (default: 5)
	ScanTimeout time.Duration // per-company deadline (default: 2m)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    1 * time.Hour,
		Concurrency: 5,
		ScanTimeout: 2 * time.Minute,
	}
}

// Scheduler periodically re-scans companies that are due per their
// check frequency.
type Scheduler struct {
	cfg     Config
	source  CompanySource
	scanner CompanyScanner
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a Scheduler.
func NewScheduler(cfg Config, source CompanySource, scanner CompanyScanner, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cfg:     cfg,
		source:  source,
		scanner: scanner,
		logger:  logger,
	}
}

// Start begins the scheduling loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.run()

	s.logger.Info("monitor scheduler started",
		"interval", s.cfg.Interval,
		"concurrency", s.cfg.Concurrency,
	)
	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("monitor scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main scheduling loop.
func (s *Scheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	// Scan immediately on start.
	s.scanDue()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.scanDue()
		}
	}
}

// scanDue scans every due company with bounded concurrency.
func (s *Scheduler) scanDue() {
	start := time.Now()

	companies, err := s.source.ActiveCompanies(s.ctx)
	if err != nil {
		s.logger.Error("failed to list active companies", "err", err)
		return
	}

	due := make([]model.ActiveCompany, 0, len(companies))
	for _, c := range companies {
		if isDue(c, start) {
			due = append(due, c)
		}
	}
	if len(due) == 0 {
		s.logger.Debug("no companies due for scanning")
		return
	}

	// Semaphore for bounded concurrency.
	sem := make(chan struct{}, s.cfg.Concurrency)
	var wg sync.WaitGroup
	var scanned, failed atomic.Int64

	for _, company := range due {
		wg.Add(1)
		go func(company model.ActiveCompany) {
			defer wg.Done()

			// Acquire semaphore slot.
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-s.ctx.Done():
				return
			}

			ctx, cancel := context.WithTimeout(s.ctx, s.cfg.ScanTimeout)
			defer cancel()

			if _, err := s.scanner.ScanCompany(ctx, company); err != nil {
				s.logger.Warn("failed to scan company",
					"company_id", company.ID,
					"company", company.Name,
					"err", err,
				)
				failed.Add(1)
				return
			}

			scanned.Add(1)
		}(company)
	}

	wg.Wait()

	s.logger.Info("scan cycle complete",
		"due", len(due),
		"scanned", scanned.Load(),
		"failed", failed.Load(),
		"duration", time.Since(start),
	)
}

// isDue reports whether a company's check frequency has elapsed since
// it was last monitored. Never-monitored companies are always due.
func isDue(c model.ActiveCompany, now time.Time) bool {
	if c.LastMonitored == nil {
		return true
	}
	return now.Sub(*c.LastMonitored) >= frequencyInterval(c.CheckFrequency)
}

// frequencyInterval maps a check_frequency value to its period.
// Unknown values fall back to weekly.
func frequencyInterval(frequency string) time.Duration {
	switch frequency {
	case "hourly":
		return time.Hour
	case "daily":
		return 24 * time.Hour
	case "weekly":
		return 7 * 24 * time.Hour
	case "monthly":
		return 30 * 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}
