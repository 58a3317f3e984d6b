package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rickgao/shopwatch/internal/database"
	"github.com/rickgao/shopwatch/internal/model"
)

const companyColumns = `id, name, url, domain, industry, description, is_active, created_at, updated_at`

// CompanyStore persists companies.
type CompanyStore struct {
	db database.Querier
}

// NewCompanyStore creates a company store over db.
func NewCompanyStore(db database.Querier) *CompanyStore {
	return &CompanyStore{db: db}
}

// List returns all companies ordered by name.
func (s *CompanyStore) List(ctx context.Context) ([]model.Company, error) {
	rows, err := s.db.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	companies := []model.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, *c)
	}
	return companies, rows.Err()
}

// Create inserts a new company. is_active defaults to true.
func (s *CompanyStore) Create(ctx context.Context, in model.CompanyInput) (*model.Company, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO companies (name, url, domain, industry, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+companyColumns,
		in.Name, in.URL, in.Domain, in.Industry, in.Description)

	c, err := scanCompany(row)
	if err != nil {
		return nil, fmt.Errorf("insert company: %w", err)
	}
	return c, nil
}

// SetActive updates a company's active flag.
func (s *CompanyStore) SetActive(ctx context.Context, id int64, active bool) (*model.Company, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE companies SET is_active = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+companyColumns, id, active)

	c, err := scanCompany(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("update company status: %w", err)
	}
	return c, nil
}

// Delete removes a company; products and monitoring config cascade.
func (s *CompanyStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return database.ErrNotFound
	}
	return nil
}

func scanCompany(row pgx.Row) (*model.Company, error) {
	var c model.Company
	err := row.Scan(
		&c.ID, &c.Name, &c.URL, &c.Domain, &c.Industry,
		&c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
