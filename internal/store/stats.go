package store

import (
	"context"
	"fmt"

	"github.com/rickgao/shopwatch/internal/database"
	"github.com/rickgao/shopwatch/internal/model"
)

// Stats aggregates dataset counts in one round trip.
func Stats(ctx context.Context, db database.Querier) (*model.Stats, error) {
	var st model.Stats
	err := db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM companies),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM products WHERE is_new_product = true),
			(SELECT COUNT(*) FROM monitoring_configs WHERE is_enabled = true)`,
	).Scan(&st.TotalCompanies, &st.TotalProducts, &st.NewProducts, &st.ActiveConfigs)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	return &st, nil
}
