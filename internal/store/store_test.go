package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rickgao/shopwatch/internal/database"
	"github.com/rickgao/shopwatch/internal/model"
)

// fakeQuerier records the last statement and returns canned results.
type fakeQuerier struct {
	lastSQL  string
	lastArgs []any

	execTag pgconn.CommandTag
	execErr error
	rowErr  error
}

func (f *fakeQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.lastSQL, f.lastArgs = sql, args
	return f.execTag, f.execErr
}

func (f *fakeQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.lastSQL, f.lastArgs = sql, args
	return nil, errors.New("not implemented")
}

func (f *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.lastSQL, f.lastArgs = sql, args
	return errRow{err: f.rowErr}
}

type errRow struct{ err error }

func (r errRow) Scan(dest ...any) error { return r.err }

func TestCompanyDeleteNotFound(t *testing.T) {
	db := &fakeQuerier{execTag: pgconn.NewCommandTag("DELETE 0")}
	s := NewCompanyStore(db)

	err := s.Delete(context.Background(), 42)
	if !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("Delete err = %v, want ErrNotFound", err)
	}
	if len(db.lastArgs) != 1 || db.lastArgs[0] != int64(42) {
		t.Errorf("args = %v, want [42]", db.lastArgs)
	}
}

func TestCompanyDelete(t *testing.T) {
	db := &fakeQuerier{execTag: pgconn.NewCommandTag("DELETE 1")}
	s := NewCompanyStore(db)

	if err := s.Delete(context.Background(), 42); err != nil {
		t.Fatalf("Delete err = %v, want nil", err)
	}
}

func TestCompanySetActiveNotFound(t *testing.T) {
	db := &fakeQuerier{rowErr: pgx.ErrNoRows}
	s := NewCompanyStore(db)

	_, err := s.SetActive(context.Background(), 42, false)
	if !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("SetActive err = %v, want ErrNotFound", err)
	}
}

func TestCompanyCreatePassesViolationThrough(t *testing.T) {
	// Unique violations must survive wrapping so handlers can classify
	// them into a 409.
	db := &fakeQuerier{rowErr: &pgconn.PgError{Code: "23505"}}
	s := NewCompanyStore(db)

	_, err := s.Create(context.Background(), model.CompanyInput{Name: "Acme"})
	if !database.IsUniqueViolation(err) {
		t.Fatalf("Create err = %v, want a classifiable unique violation", err)
	}
}

func TestProductDeleteNotFound(t *testing.T) {
	db := &fakeQuerier{execTag: pgconn.NewCommandTag("DELETE 0")}
	s := NewProductStore(db)

	err := s.Delete(context.Background(), 7)
	if !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("Delete err = %v, want ErrNotFound", err)
	}
}

func TestProductInsertPassesViolationThrough(t *testing.T) {
	db := &fakeQuerier{rowErr: &pgconn.PgError{Code: "23503"}}
	s := NewProductStore(db)

	_, err := s.Insert(context.Background(), model.ProductInput{CompanyID: 1, Title: "Widget"})
	if !database.IsForeignKeyViolation(err) {
		t.Fatalf("Insert err = %v, want a classifiable FK violation", err)
	}
}

func TestMonitoringDeleteNotFound(t *testing.T) {
	db := &fakeQuerier{execTag: pgconn.NewCommandTag("DELETE 0")}
	s := NewMonitoringStore(db)

	err := s.Delete(context.Background(), 3)
	if !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("Delete err = %v, want ErrNotFound", err)
	}
}

func TestMonitoringActiveCompanyNotFound(t *testing.T) {
	db := &fakeQuerier{rowErr: pgx.ErrNoRows}
	s := NewMonitoringStore(db)

	_, err := s.ActiveCompany(context.Background(), 3)
	if !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("ActiveCompany err = %v, want ErrNotFound", err)
	}
}

func TestMonitoringUpsertStatement(t *testing.T) {
	db := &fakeQuerier{rowErr: pgx.ErrNoRows}
	s := NewMonitoringStore(db)

	daysBack := 30
	s.Upsert(context.Background(), model.MonitoringConfigInput{CompanyID: 5, DaysBack: &daysBack})

	if !strings.Contains(db.lastSQL, "ON CONFLICT (company_id) DO UPDATE") {
		t.Errorf("Upsert must be a single atomic insert-or-update, got:\n%s", db.lastSQL)
	}
	if db.lastArgs[0] != int64(5) || db.lastArgs[1] != 30 {
		t.Errorf("args = %v, want company 5 with days_back 30", db.lastArgs)
	}
}
