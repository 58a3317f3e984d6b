package model

import "time"

// -----------------------------------------------------------------------------
// Entities
// -----------------------------------------------------------------------------

// Company is a monitored competitor. Deleting a company cascades to its
// products and monitoring config.
type Company struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	URL         *string   `json:"url"`
	Domain      *string   `json:"domain"`
	Industry    *string   `json:"industry"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Product is a catalog item found on a company's storefront.
// (CompanyID, ShopifyProductID) is unique when the external ID is present.
type Product struct {
	ID               int64      `json:"id"`
	CompanyID        int64      `json:"company_id"`
	ShopifyProductID *int64     `json:"shopify_product_id"`
	Title            string     `json:"title"`
	Handle           *string    `json:"handle"`
	ProductType      *string    `json:"product_type"`
	Vendor           *string    `json:"vendor"`
	Price            *float64   `json:"price"`
	ShopifyCreatedAt *time.Time `json:"shopify_created_at"`
	DaysOldWhenFound *int       `json:"days_old_when_found"`
	ProductURL       *string    `json:"product_url"`
	ImageURL         *string    `json:"image_url"`
	Tags             *string    `json:"tags"`
	FirstSeen        time.Time  `json:"first_seen"`
	LastSeen         time.Time  `json:"last_seen"`
	IsNewProduct     bool       `json:"is_new_product"`

	// CompanyName is joined in by list queries, empty elsewhere.
	CompanyName string `json:"company_name,omitempty"`
}

// MonitoringConfig tunes scanning for one company (one row per company).
type MonitoringConfig struct {
	ID             int64      `json:"id"`
	CompanyID      int64      `json:"company_id"`
	DaysBack       int        `json:"days_back"`
	MaxProducts    int        `json:"max_products"`
	CheckFrequency string     `json:"check_frequency"`
	IsEnabled      bool       `json:"is_enabled"`
	LastMonitored  *time.Time `json:"last_monitored"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// CompanyName is joined in by list queries, empty elsewhere.
	CompanyName string `json:"company_name,omitempty"`
}

// ActiveCompany is a row of the active_companies_with_settings view:
// an active company joined with its enabled monitoring settings.
// Settings fall back to defaults when the company has no config row.
type ActiveCompany struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	URL            *string    `json:"url"`
	Domain         *string    `json:"domain"`
	DaysBack       int        `json:"days_back"`
	MaxProducts    int        `json:"max_products"`
	CheckFrequency string     `json:"check_frequency"`
	LastMonitored  *time.Time `json:"last_monitored"`
}

// Stats summarizes the stored dataset for the dashboard.
type Stats struct {
	TotalCompanies int64 `json:"totalCompanies"`
	TotalProducts  int64 `json:"totalProducts"`
	NewProducts    int64 `json:"newProducts"`
	ActiveConfigs  int64 `json:"activeConfigs"`
}
