package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rickgao/shopwatch/internal/database"
	"github.com/rickgao/shopwatch/internal/model"
)

const monitoringColumns = `id, company_id, days_back, max_products, check_frequency,
	is_enabled, last_monitored, created_at, updated_at`

// MonitoringStore persists per-company monitoring configs.
type MonitoringStore struct {
	db database.Querier
}

// NewMonitoringStore creates a monitoring config store over db.
func NewMonitoringStore(db database.Querier) *MonitoringStore {
	return &MonitoringStore{db: db}
}

// List returns all configs with their company name joined in.
func (s *MonitoringStore) List(ctx context.Context) ([]model.MonitoringConfig, error) {
	rows, err := s.db.Query(ctx, `
		SELECT mc.id, mc.company_id, mc.days_back, mc.max_products, mc.check_frequency,
			mc.is_enabled, mc.last_monitored, mc.created_at, mc.updated_at,
			c.name AS company_name
		FROM monitoring_configs mc
		JOIN companies c ON c.id = mc.company_id
		ORDER BY c.name`)
	if err != nil {
		return nil, fmt.Errorf("list monitoring configs: %w", err)
	}
	defer rows.Close()

	configs := []model.MonitoringConfig{}
	for rows.Next() {
		var mc model.MonitoringConfig
		err := rows.Scan(
			&mc.ID, &mc.CompanyID, &mc.DaysBack, &mc.MaxProducts, &mc.CheckFrequency,
			&mc.IsEnabled, &mc.LastMonitored, &mc.CreatedAt, &mc.UpdatedAt,
			&mc.CompanyName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan monitoring config: %w", err)
		}
		configs = append(configs, mc)
	}
	return configs, rows.Err()
}

// Upsert inserts or updates the config for a company in a single
// atomic statement keyed on the company_id uniqueness constraint.
// Concurrent saves for the same company cannot produce two rows.
func (s *MonitoringStore) Upsert(ctx context.Context, in model.MonitoringConfigInput) (*model.MonitoringConfig, error) {
	daysBack, maxProducts, checkFrequency, isEnabled := in.Normalize()

	row := s.db.QueryRow(ctx, `
		INSERT INTO monitoring_configs (company_id, days_back, max_products, check_frequency, is_enabled)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (company_id) DO UPDATE SET
			days_back = EXCLUDED.days_back,
			max_products = EXCLUDED.max_products,
			check_frequency = EXCLUDED.check_frequency,
			is_enabled = EXCLUDED.is_enabled,
			updated_at = NOW()
		RETURNING `+monitoringColumns,
		in.CompanyID, daysBack, maxProducts, checkFrequency, isEnabled)

	mc, err := scanMonitoringConfig(row)
	if err != nil {
		return nil, fmt.Errorf("upsert monitoring config: %w", err)
	}
	return mc, nil
}

// Delete removes the config for a company.
func (s *MonitoringStore) Delete(ctx context.Context, companyID int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM monitoring_configs WHERE company_id = $1`, companyID)
	if err != nil {
		return fmt.Errorf("delete monitoring config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return database.ErrNotFound
	}
	return nil
}

// TouchLastMonitored stamps the config after a completed scan.
func (s *MonitoringStore) TouchLastMonitored(ctx context.Context, companyID int64) error {
	_, err := s.db.Exec(ctx, `
		UPDATE monitoring_configs SET last_monitored = NOW(), updated_at = NOW()
		WHERE company_id = $1`, companyID)
	if err != nil {
		return fmt.Errorf("touch last_monitored: %w", err)
	}
	return nil
}

// ActiveCompanies reads the derived view of active companies with
// their effective monitoring settings.
func (s *MonitoringStore) ActiveCompanies(ctx context.Context) ([]model.ActiveCompany, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, url, domain, days_back, max_products, check_frequency, last_monitored
		FROM active_companies_with_settings
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query active companies view: %w", err)
	}
	defer rows.Close()

	companies := []model.ActiveCompany{}
	for rows.Next() {
		var ac model.ActiveCompany
		err := rows.Scan(
			&ac.ID, &ac.Name, &ac.URL, &ac.Domain,
			&ac.DaysBack, &ac.MaxProducts, &ac.CheckFrequency, &ac.LastMonitored,
		)
		if err != nil {
			return nil, fmt.Errorf("scan active company: %w", err)
		}
		companies = append(companies, ac)
	}
	return companies, rows.Err()
}

// ActiveCompany reads one company's row from the derived view.
// Returns database.ErrNotFound for inactive, disabled, or absent
// companies.
func (s *MonitoringStore) ActiveCompany(ctx context.Context, companyID int64) (*model.ActiveCompany, error) {
	var ac model.ActiveCompany
	err := s.db.QueryRow(ctx, `
		SELECT id, name, url, domain, days_back, max_products, check_frequency, last_monitored
		FROM active_companies_with_settings
		WHERE id = $1`, companyID,
	).Scan(
		&ac.ID, &ac.Name, &ac.URL, &ac.Domain,
		&ac.DaysBack, &ac.MaxProducts, &ac.CheckFrequency, &ac.LastMonitored,
	)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("query active company: %w", err)
	}
	return &ac, nil
}

func scanMonitoringConfig(row pgx.Row) (*model.MonitoringConfig, error) {
	var mc model.MonitoringConfig
	err := row.Scan(
		&mc.ID, &mc.CompanyID, &mc.DaysBack, &mc.MaxProducts, &mc.CheckFrequency,
		&mc.IsEnabled, &mc.LastMonitored, &mc.CreatedAt, &mc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &mc, nil
}
