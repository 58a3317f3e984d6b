package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rickgao/shopwatch/internal/database"
	"github.com/rickgao/shopwatch/internal/model"
)

const productColumns = `id, company_id, shopify_product_id, title, handle, product_type, vendor,
	price, shopify_created_at, days_old_when_found, product_url, image_url, tags,
	first_seen, last_seen, is_new_product`

// ProductStore persists products.
type ProductStore struct {
	db database.Querier
}

// NewProductStore creates a product store over db.
func NewProductStore(db database.Querier) *ProductStore {
	return &ProductStore{db: db}
}

// List returns all products with their company name joined in,
// newest first.
func (s *ProductStore) List(ctx context.Context) ([]model.Product, error) {
	rows, err := s.db.Query(ctx, `
		SELECT p.id, p.company_id, p.shopify_product_id, p.title, p.handle, p.product_type,
			p.vendor, p.price, p.shopify_created_at, p.days_old_when_found, p.product_url,
			p.image_url, p.tags, p.first_seen, p.last_seen, p.is_new_product,
			c.name AS company_name
		FROM products p
		JOIN companies c ON c.id = p.company_id
		ORDER BY p.first_seen DESC`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		err := rows.Scan(
			&p.ID, &p.CompanyID, &p.ShopifyProductID, &p.Title, &p.Handle, &p.ProductType,
			&p.Vendor, &p.Price, &p.ShopifyCreatedAt, &p.DaysOldWhenFound, &p.ProductURL,
			&p.ImageURL, &p.Tags, &p.FirstSeen, &p.LastSeen, &p.IsNewProduct,
			&p.CompanyName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Insert adds one product. Uniqueness violations on
// (company_id, shopify_product_id) pass through unclassified; callers
// decide whether a duplicate is a skip or a conflict.
func (s *ProductStore) Insert(ctx context.Context, in model.ProductInput) (*model.Product, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO products (company_id, shopify_product_id, title, handle, product_type,
			vendor, price, shopify_created_at, days_old_when_found, product_url, image_url,
			tags, is_new_product)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+productColumns,
		in.CompanyID, in.ShopifyProductID, in.Title, in.Handle, in.ProductType,
		in.Vendor, in.Price, in.ShopifyCreatedAt, in.DaysOldWhenFound, in.ProductURL,
		in.ImageURL, in.Tags, in.IsNewProduct)

	p, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

// Delete removes a product by id.
func (s *ProductStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return database.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.ShopifyProductID, &p.Title, &p.Handle, &p.ProductType,
		&p.Vendor, &p.Price, &p.ShopifyCreatedAt, &p.DaysOldWhenFound, &p.ProductURL,
		&p.ImageURL, &p.Tags, &p.FirstSeen, &p.LastSeen, &p.IsNewProduct,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
