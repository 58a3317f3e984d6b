package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rickgao/shopwatch/internal/model"
)

func productInput(companyID int64, shopifyID int64, title string) model.ProductInput {
	return model.ProductInput{
		CompanyID:        companyID,
		ShopifyProductID: &shopifyID,
		Title:            title,
	}
}

func TestBulkProductsSkipsDuplicates(t *testing.T) {
	db := newFakeDB()
	o := New(db, nil)

	// Two records sharing company_id=1 and shopify_product_id=555.
	batch := []model.ProductInput{
		productInput(1, 555, "Widget"),
		productInput(1, 555, "Widget Again"),
	}

	result, err := o.BulkProducts(context.Background(), batch)
	if err != nil {
		t.Fatalf("BulkProducts failed: %v", err)
	}

	if result.Added != 1 {
		t.Errorf("Added = %d, want 1", result.Added)
	}
	if result.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", result.Skipped)
	}
	if len(result.SkippedProducts) != 1 {
		t.Fatalf("len(SkippedProducts) = %d, want 1", len(result.SkippedProducts))
	}
	if result.SkippedProducts[0].Reason != "Duplicate Shopify ID" {
		t.Errorf("Reason = %q, want %q", result.SkippedProducts[0].Reason, "Duplicate Shopify ID")
	}
	if result.SkippedProducts[0].Product.Title != "Widget Again" {
		t.Errorf("skipped Title = %q, want %q", result.SkippedProducts[0].Product.Title, "Widget Again")
	}
	if !db.lastTx.committed {
		t.Error("batch transaction was not committed")
	}
}

func TestBulkProductsIdempotent(t *testing.T) {
	db := newFakeDB()
	o := New(db, nil)

	batch := []model.ProductInput{
		productInput(1, 100, "A"),
		productInput(1, 200, "B"),
		productInput(2, 100, "C"), // same external id, different company
	}

	first, err := o.BulkProducts(context.Background(), batch)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if first.Added != 3 || first.Skipped != 0 {
		t.Fatalf("first run: added=%d skipped=%d, want 3/0", first.Added, first.Skipped)
	}

	second, err := o.BulkProducts(context.Background(), batch)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if second.Added != 0 {
		t.Errorf("second run Added = %d, want 0", second.Added)
	}
	if second.Skipped != len(batch) {
		t.Errorf("second run Skipped = %d, want %d", second.Skipped, len(batch))
	}
	if got := len(db.products); got != 3 {
		t.Errorf("stored products = %d, want 3 (no duplicate rows)", got)
	}
}

func TestBulkProductsFatalAbortsBatch(t *testing.T) {
	db := newFakeDB()
	db.failOnTitle = "Poison" // simulates a foreign-key violation
	o := New(db, nil)

	batch := []model.ProductInput{
		productInput(1, 1, "One"),
		productInput(1, 2, "Two"),
		productInput(99, 3, "Poison"),
		productInput(1, 4, "Four"),
		productInput(1, 5, "Five"),
	}

	_, err := o.BulkProducts(context.Background(), batch)
	if err == nil {
		t.Fatal("BulkProducts succeeded, want error")
	}

	if len(db.products) != 0 {
		t.Errorf("stored products = %d, want 0 after rollback", len(db.products))
	}
	if db.lastTx.committed {
		t.Error("batch transaction committed despite fatal error")
	}
	if !db.lastTx.rolledBack {
		t.Error("batch transaction was not rolled back")
	}
}

func TestBulkProductsRejectsMalformedBeforeTx(t *testing.T) {
	db := newFakeDB()
	o := New(db, nil)

	batch := []model.ProductInput{
		productInput(1, 1, "One"),
		{CompanyID: 1}, // missing title
	}

	_, err := o.BulkProducts(context.Background(), batch)
	if !errors.Is(err, ErrInvalidBatch) {
		t.Fatalf("error = %v, want ErrInvalidBatch", err)
	}
	if db.begun != 0 {
		t.Error("transaction was opened for an invalid batch")
	}
}

func TestBulkProductsNilExternalIDNeverConflicts(t *testing.T) {
	db := newFakeDB()
	o := New(db, nil)

	batch := []model.ProductInput{
		{CompanyID: 1, Title: "Manual A"},
		{CompanyID: 1, Title: "Manual B"},
	}

	result, err := o.BulkProducts(context.Background(), batch)
	if err != nil {
		t.Fatalf("BulkProducts failed: %v", err)
	}
	if result.Added != 2 || result.Skipped != 0 {
		t.Errorf("added=%d skipped=%d, want 2/0", result.Added, result.Skipped)
	}
}

func TestBulkCompanies(t *testing.T) {
	db := newFakeDB()
	o := New(db, nil)

	batch := []model.CompanyInput{
		{Name: "Acme"},
		{Name: "Globex"},
	}

	result, err := o.BulkCompanies(context.Background(), batch)
	if err != nil {
		t.Fatalf("BulkCompanies failed: %v", err)
	}
	if result.Count != 2 {
		t.Errorf("Count = %d, want 2", result.Count)
	}
	if len(db.companies) != 2 {
		t.Errorf("stored companies = %d, want 2", len(db.companies))
	}
}

func TestBulkCompaniesDuplicateNameAbortsAll(t *testing.T) {
	db := newFakeDB()
	o := New(db, nil)

	if _, err := o.BulkCompanies(context.Background(), []model.CompanyInput{{Name: "Acme"}}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	_, err := o.BulkCompanies(context.Background(), []model.CompanyInput{
		{Name: "Initech"},
		{Name: "Acme"}, // duplicate
	})
	if err == nil {
		t.Fatal("BulkCompanies succeeded, want error")
	}

	// Initech must not survive the rollback.
	if len(db.companies) != 1 {
		t.Errorf("stored companies = %d, want 1", len(db.companies))
	}
}

func TestBulkCompaniesRejectsMissingName(t *testing.T) {
	db := newFakeDB()
	o := New(db, nil)

	_, err := o.BulkCompanies(context.Background(), []model.CompanyInput{{Name: "Acme"}, {}})
	if !errors.Is(err, ErrInvalidBatch) {
		t.Fatalf("error = %v, want ErrInvalidBatch", err)
	}
	if db.begun != 0 {
		t.Error("transaction was opened for an invalid batch")
	}
}

// -----------------------------------------------------------------------------
// Fakes: an in-memory pgx.Tx with savepoint semantics
// -----------------------------------------------------------------------------

type fakeDB struct {
	products    map[string]bool // committed (company_id, shopify_product_id) keys
	companies   map[string]bool // committed company names
	nextID      int64
	begun       int
	lastTx      *fakeTx
	failOnTitle string // product title that triggers a fake FK violation
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		products:  map[string]bool{},
		companies: map[string]bool{},
	}
}

func (f *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	f.begun++
	f.lastTx = &fakeTx{db: f}
	return f.lastTx, nil
}

type fakeTx struct {
	db     *fakeDB
	parent *fakeTx

	pendingProducts  []string
	pendingCompanies []string
	committed        bool
	rolledBack       bool
}

func (f *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) {
	return &fakeTx{db: f.db, parent: f}, nil
}

func (f *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	switch {
	case strings.Contains(sql, "INSERT INTO products"):
		return f.insertProduct(args)
	case strings.Contains(sql, "INSERT INTO companies"):
		return f.insertCompany(args)
	default:
		return errRow{errors.New("unexpected query: " + sql)}
	}
}

func (f *fakeTx) insertProduct(args []any) pgx.Row {
	title := args[2].(string)
	if title == f.db.failOnTitle && title != "" {
		return errRow{&pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"}}
	}

	shopifyID := args[1].(*int64)
	if shopifyID != nil {
		key := fmt.Sprintf("%d:%d", args[0].(int64), *shopifyID)
		if f.hasProduct(key) {
			return errRow{&pgconn.PgError{Code: "23505", Message: "duplicate key value"}}
		}
		f.pendingProducts = append(f.pendingProducts, key)
	}

	f.db.nextID++
	return &productRow{id: f.db.nextID, args: args, now: time.Now()}
}

func (f *fakeTx) insertCompany(args []any) pgx.Row {
	name := args[0].(string)
	if f.hasCompany(name) {
		return errRow{&pgconn.PgError{Code: "23505", Message: "duplicate key value"}}
	}
	f.pendingCompanies = append(f.pendingCompanies, name)

	f.db.nextID++
	return &companyRow{id: f.db.nextID, args: args, now: time.Now()}
}

func (f *fakeTx) hasProduct(key string) bool {
	for tx := f; tx != nil; tx = tx.parent {
		for _, k := range tx.pendingProducts {
			if k == key {
				return true
			}
		}
	}
	return f.db.products[key]
}

func (f *fakeTx) hasCompany(name string) bool {
	for tx := f; tx != nil; tx = tx.parent {
		for _, n := range tx.pendingCompanies {
			if n == name {
				return true
			}
		}
	}
	return f.db.companies[name]
}

func (f *fakeTx) Commit(ctx context.Context) error {
	f.committed = true
	if f.parent != nil {
		f.parent.pendingProducts = append(f.parent.pendingProducts, f.pendingProducts...)
		f.parent.pendingCompanies = append(f.parent.pendingCompanies, f.pendingCompanies...)
		return nil
	}
	for _, k := range f.pendingProducts {
		f.db.products[k] = true
	}
	for _, n := range f.pendingCompanies {
		f.db.companies[n] = true
	}
	return nil
}

func (f *fakeTx) Rollback(ctx context.Context) error {
	if !f.committed {
		f.rolledBack = true
		f.pendingProducts = nil
		f.pendingCompanies = nil
	}
	return nil
}

func (f *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (f *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTx) Conn() *pgx.Conn                { return nil }
func (f *fakeTx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }

func (f *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (f *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }

func (f *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

type errRow struct{ err error }

func (r errRow) Scan(dest ...any) error { return r.err }

// productRow scans back the inserted values in productColumns order.
type productRow struct {
	id   int64
	args []any
	now  time.Time
}

func (r *productRow) Scan(dest ...any) error {
	*dest[0].(*int64) = r.id
	*dest[1].(*int64) = r.args[0].(int64)
	*dest[2].(**int64) = r.args[1].(*int64)
	*dest[3].(*string) = r.args[2].(string)
	*dest[4].(**string) = r.args[3].(*string)
	*dest[5].(**string) = r.args[4].(*string)
	*dest[6].(**string) = r.args[5].(*string)
	*dest[7].(**float64) = r.args[6].(*float64)
	*dest[8].(**time.Time) = r.args[7].(*time.Time)
	*dest[9].(**int) = r.args[8].(*int)
	*dest[10].(**string) = r.args[9].(*string)
	*dest[11].(**string) = r.args[10].(*string)
	*dest[12].(**string) = r.args[11].(*string)
	*dest[13].(*time.Time) = r.now
	*dest[14].(*time.Time) = r.now
	*dest[15].(*bool) = r.args[12].(bool)
	return nil
}

// companyRow scans back the inserted values in companyColumns order.
type companyRow struct {
	id   int64
	args []any
	now  time.Time
}

func (r *companyRow) Scan(dest ...any) error {
	*dest[0].(*int64) = r.id
	*dest[1].(*string) = r.args[0].(string)
	*dest[2].(**string) = r.args[1].(*string)
	*dest[3].(**string) = r.args[2].(*string)
	*dest[4].(**string) = r.args[3].(*string)
	*dest[5].(**string) = r.args[4].(*string)
	*dest[6].(*bool) = true
	*dest[7].(*time.Time) = r.now
	*dest[8].(*time.Time) = r.now
	return nil
}
