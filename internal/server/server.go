package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rickgao/shopwatch/internal/config"
	"github.com/rickgao/shopwatch/internal/ingest"
	"github.com/rickgao/shopwatch/internal/model"
	"github.com/rickgao/shopwatch/internal/schema"
)

// CompanyStore is the company repository surface the handlers need.
type CompanyStore interface {
	List(ctx context.Context) ([]model.Company, error)
	Create(ctx context.Context, in model.CompanyInput) (*model.Company, error)
	SetActive(ctx context.Context, id int64, active bool) (*model.Company, error)
	Delete(ctx context.Context, id int64) error
}

// ProductStore is the product repository surface the handlers need.
type ProductStore interface {
	List(ctx context.Context) ([]model.Product, error)
	Insert(ctx context.Context, in model.ProductInput) (*model.Product, error)
	Delete(ctx context.Context, id int64) error
}

// MonitoringStore is the monitoring-config repository surface.
type MonitoringStore interface {
	List(ctx context.Context) ([]model.MonitoringConfig, error)
	Upsert(ctx context.Context, in model.MonitoringConfigInput) (*model.MonitoringConfig, error)
	Delete(ctx context.Context, companyID int64) error
	ActiveCompany(ctx context.Context, companyID int64) (*model.ActiveCompany, error)
}

// Ingestor runs transactional bulk writes.
type Ingestor interface {
	BulkProducts(ctx context.Context, inputs []model.ProductInput) (*ingest.ProductBatchResult, error)
	BulkCompanies(ctx context.Context, inputs []model.CompanyInput) (*ingest.CompanyBatchResult, error)
}

// Scanner runs an on-demand catalog scan for one company.
type Scanner interface {
	ScanCompany(ctx context.Context, company model.ActiveCompany) (*ingest.ProductBatchResult, error)
}

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BootstrapFunc re-runs the schema bootstrap.
type BootstrapFunc func(ctx context.Context) ([]schema.TableStatus, error)

// StatsFunc aggregates dataset counts.
type StatsFunc func(ctx context.Context) (*model.Stats, error)

// Deps carries everything the handlers call into.
type Deps struct {
	Companies CompanyStore
	Products  ProductStore
	Configs   MonitoringStore
	Ingestor  Ingestor
	Scanner   Scanner
	Bootstrap BootstrapFunc
	Stats     StatsFunc
	DB        Pinger
}

// Server is the REST API server.
type Server struct {
	cfg    config.ServerConfig
	deps   Deps
	logger *slog.Logger
	http   *http.Server
}

// New creates a Server.
func New(cfg config.ServerConfig, deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:    cfg,
		deps:   deps,
		logger: logger,
	}
	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Routes builds the router. Exposed for tests.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Route("/api", func(r chi.Router) {
		r.Get("/companies", s.listCompanies)
		r.Post("/companies", s.createCompany)
		r.Post("/companies/bulk", s.bulkCompanies)
		r.Patch("/companies/{id}/status", s.setCompanyStatus)
		r.Delete("/companies/{id}", s.deleteCompany)
		r.Post("/companies/{id}/scan", s.scanCompany)

		r.Get("/products", s.listProducts)
		r.Post("/products", s.createProduct)
		r.Post("/products/bulk", s.bulkProducts)
		r.Delete("/products/{id}", s.deleteProduct)

		r.Get("/monitoring-configs", s.listMonitoringConfigs)
		r.Post("/monitoring-configs", s.saveMonitoringConfig)
		r.Delete("/monitoring-configs/{companyID}", s.deleteMonitoringConfig)

		r.Get("/stats", s.getStats)
		r.Post("/setup-database", s.setupDatabase)
		r.Get("/health", s.health)
	})

	return r
}

// Start begins serving. Blocks until the listener stops.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests and shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("http server stopping")
	return s.http.Shutdown(ctx)
}
