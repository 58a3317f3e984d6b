package schema

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
)

// Table statuses reported by Bootstrap.
const (
	StatusCreated = "created" // table did not exist and was created
	StatusExists  = "exists"  // table was already present
	StatusReady   = "ready"   // converged structure (indexes, view)
)

// TableStatus is one line of the bootstrap summary.
type TableStatus struct {
	Table  string `json:"table"`
	Status string `json:"status"`
}

// TxBeginner starts transactions. Satisfied by *pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type tableDef struct {
	name string
	ddl  string
}

// tables are applied in order: products and monitoring_configs
// reference companies.
var tables = []tableDef{
	{
		name: "companies",
		ddl: `
			CREATE TABLE IF NOT EXISTS companies (
				id SERIAL PRIMARY KEY,
				name VARCHAR(255) NOT NULL UNIQUE,
				url VARCHAR(500),
				domain VARCHAR(255),
				industry VARCHAR(255),
				description TEXT,
				is_active BOOLEAN NOT NULL DEFAULT true,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
	},
	{
		name: "products",
		ddl: `
			CREATE TABLE IF NOT EXISTS products (
				id SERIAL PRIMARY KEY,
				company_id INTEGER NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
				shopify_product_id BIGINT,
				title VARCHAR(500) NOT NULL,
				handle VARCHAR(500),
				product_type VARCHAR(255),
				vendor VARCHAR(255),
				price NUMERIC(10,2),
				shopify_created_at TIMESTAMPTZ,
				days_old_when_found INTEGER,
				product_url VARCHAR(1000),
				image_url VARCHAR(1000),
				tags TEXT,
				first_seen TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				last_seen TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				is_new_product BOOLEAN NOT NULL DEFAULT false,
				UNIQUE (company_id, shopify_product_id)
			)`,
	},
	{
		name: "monitoring_configs",
		ddl: `
			CREATE TABLE IF NOT EXISTS monitoring_configs (
				id SERIAL PRIMARY KEY,
				company_id INTEGER NOT NULL UNIQUE REFERENCES companies(id) ON DELETE CASCADE,
				days_back INTEGER NOT NULL DEFAULT 7,
				max_products INTEGER NOT NULL DEFAULT 50,
				check_frequency VARCHAR(50) NOT NULL DEFAULT 'weekly',
				is_enabled BOOLEAN NOT NULL DEFAULT true,
				last_monitored TIMESTAMPTZ,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
	},
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_products_company_id ON products (company_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_shopify_product_id ON products (shopify_product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_is_new_product ON products (is_new_product)`,
	`CREATE INDEX IF NOT EXISTS idx_products_first_seen ON products (first_seen)`,
}

// viewName joins active companies with their enabled monitoring
// settings, falling back to defaults when no config row exists.
const viewName = "active_companies_with_settings"

const viewDDL = `
	CREATE OR REPLACE VIEW active_companies_with_settings AS
	SELECT
		c.id,
		c.name,
		c.url,
		c.domain,
		COALESCE(mc.days_back, 7) AS days_back,
		COALESCE(mc.max_products, 50) AS max_products,
		COALESCE(mc.check_frequency, 'weekly') AS check_frequency,
		mc.last_monitored
	FROM companies c
	LEFT JOIN monitoring_configs mc ON mc.company_id = c.id
	WHERE c.is_active = true
	  AND COALESCE(mc.is_enabled, true) = true`

// Bootstrap ensures all tables, indexes, and the derived view exist.
// Everything runs in one transaction; any failure rolls the whole
// invocation back. Safe to call repeatedly.
func Bootstrap(ctx context.Context, db TxBeginner, logger *slog.Logger) ([]TableStatus, error) {
	if logger == nil {
		logger = slog.Default()
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin bootstrap tx: %w", err)
	}
	defer tx.Rollback(ctx)

	statuses := make([]TableStatus, 0, len(tables)+1)

	for _, table := range tables {
		existed, err := tableExists(ctx, tx, table.name)
		if err != nil {
			return nil, fmt.Errorf("check table %s: %w", table.name, err)
		}

		if _, err := tx.Exec(ctx, table.ddl); err != nil {
			return nil, fmt.Errorf("create table %s: %w", table.name, err)
		}

		status := StatusCreated
		if existed {
			status = StatusExists
		}
		statuses = append(statuses, TableStatus{Table: table.name, Status: status})
		logger.Info("table bootstrapped", "table", table.name, "status", status)
	}

	for _, idx := range indexes {
		if _, err := tx.Exec(ctx, idx); err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, viewDDL); err != nil {
		return nil, fmt.Errorf("create view %s: %w", viewName, err)
	}
	statuses = append(statuses, TableStatus{Table: viewName, Status: StatusReady})

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit bootstrap tx: %w", err)
	}

	logger.Info("schema bootstrap complete", "tables", len(tables), "indexes", len(indexes))
	return statuses, nil
}

// tableExists checks the catalog for a table before CREATE IF NOT
// EXISTS runs, so the summary can distinguish created from exists.
func tableExists(ctx context.Context, tx pgx.Tx, name string) (bool, error) {
	var reg *string
	err := tx.QueryRow(ctx, `SELECT to_regclass($1)::text`, "public."+name).Scan(&reg)
	if err != nil {
		return false, err
	}
	return reg != nil, nil
}
