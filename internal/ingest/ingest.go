package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rickgao/shopwatch/internal/database"
	"github.com/rickgao/shopwatch/internal/model"
	"github.com/rickgao/shopwatch/internal/store"
)

// ReasonDuplicate marks a skipped record whose (company_id,
// shopify_product_id) pair already exists.
const ReasonDuplicate = "Duplicate Shopify ID"

// ErrInvalidBatch wraps validation failures detected before any row is
// written. The whole batch is rejected and nothing commits.
var ErrInvalidBatch = errors.New("invalid batch")

// TxBeginner starts transactions. Satisfied by *pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// SkippedProduct is a tolerated duplicate with its reason.
type SkippedProduct struct {
	Product model.ProductInput `json:"product"`
	Reason  string             `json:"reason"`
}

// ProductBatchResult reports one bulk product ingestion.
type ProductBatchResult struct {
	BatchID         uuid.UUID        `json:"batch_id"`
	Products        []model.Product  `json:"products"`
	Added           int              `json:"added"`
	Skipped         int              `json:"skipped"`
	SkippedProducts []SkippedProduct `json:"skippedProducts"`
}

// CompanyBatchResult reports one bulk company ingestion.
type CompanyBatchResult struct {
	BatchID   uuid.UUID       `json:"batch_id"`
	Companies []model.Company `json:"companies"`
	Count     int             `json:"count"`
}

// Orchestrator runs bulk ingestion inside transactions.
type Orchestrator struct {
	db     TxBeginner
	logger *slog.Logger
}

// New creates an orchestrator.
func New(db TxBeginner, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{db: db, logger: logger}
}

// BulkProducts inserts an ordered batch of products in one transaction.
//
// Duplicate (company_id, shopify_product_id) pairs are skipped per row:
// the insert runs under a savepoint, the uniqueness violation rolls the
// savepoint back, and the batch continues. Scans re-run over
// overlapping windows, so duplicates are normal. Every other failure
// aborts and rolls back the whole batch; malformed records are rejected
// before the transaction opens.
func (o *Orchestrator) BulkProducts(ctx context.Context, inputs []model.ProductInput) (*ProductBatchResult, error) {
	if err := model.ValidateBatch(inputs); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBatch, err)
	}

	tx, err := o.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin batch tx: %w", err)
	}
	defer tx.Rollback(ctx)

	result := &ProductBatchResult{
		BatchID:         uuid.New(),
		Products:        []model.Product{},
		SkippedProducts: []SkippedProduct{},
	}

	for _, in := range inputs {
		// Nested Begin opens a savepoint so one failed insert does
		// not poison the surrounding transaction.
		sp, err := tx.Begin(ctx)
		if err != nil {
			return nil, fmt.Errorf("begin savepoint: %w", err)
		}

		p, err := store.NewProductStore(sp).Insert(ctx, in)
		if err != nil {
			sp.Rollback(ctx)
			if database.IsUniqueViolation(err) {
				result.SkippedProducts = append(result.SkippedProducts, SkippedProduct{
					Product: in,
					Reason:  ReasonDuplicate,
				})
				result.Skipped++
				continue
			}
			return nil, fmt.Errorf("insert product %q: %w", in.Title, err)
		}

		if err := sp.Commit(ctx); err != nil {
			return nil, fmt.Errorf("release savepoint: %w", err)
		}
		result.Products = append(result.Products, *p)
		result.Added++
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit batch tx: %w", err)
	}

	o.logger.Info("product batch ingested",
		"batch_id", result.BatchID,
		"added", result.Added,
		"skipped", result.Skipped,
	)
	return result, nil
}

// BulkCompanies inserts an ordered batch of companies in one
// transaction with no per-row tolerance: the first failure (duplicate
// name included) rolls back the whole batch.
func (o *Orchestrator) BulkCompanies(ctx context.Context, inputs []model.CompanyInput) (*CompanyBatchResult, error) {
	for i := range inputs {
		if err := inputs[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: company %d: %s", ErrInvalidBatch, i, err)
		}
	}

	tx, err := o.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin batch tx: %w", err)
	}
	defer tx.Rollback(ctx)

	companies := store.NewCompanyStore(tx)
	result := &CompanyBatchResult{
		BatchID:   uuid.New(),
		Companies: []model.Company{},
	}

	for _, in := range inputs {
		c, err := companies.Create(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("insert company %q: %w", in.Name, err)
		}
		result.Companies = append(result.Companies, *c)
		result.Count++
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit batch tx: %w", err)
	}

	o.logger.Info("company batch ingested",
		"batch_id", result.BatchID,
		"count", result.Count,
	)
	return result, nil
}
