package model

import (
	"errors"
	"fmt"
	"time"
)

// Monitoring config defaults applied to omitted fields on upsert.
const (
	DefaultDaysBack       = 7
	DefaultMaxProducts    = 50
	DefaultCheckFrequency = "weekly"
)

// CompanyInput is the payload for creating a company.
type CompanyInput struct {
	Name        string  `json:"name"`
	URL         *string `json:"url"`
	Domain      *string `json:"domain"`
	Industry    *string `json:"industry"`
	Description *string `json:"description"`
}

// Validate checks required fields.
func (in *CompanyInput) Validate() error {
	if in.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

// ProductInput is the payload for creating a product.
type ProductInput struct {
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
	IsNewProduct     bool       `json:"is_new_product"`
}

// Validate checks required fields.
func (in *ProductInput) Validate() error {
	if in.CompanyID == 0 {
		return errors.New("company_id is required")
	}
	if in.Title == "" {
		return errors.New("title is required")
	}
	return nil
}

// ValidateBatch checks every record of a bulk payload before any row is
// written. A malformed record fails the whole batch up front; only
// duplicate external IDs are tolerated per-row later, inside the
// transaction.
func ValidateBatch(inputs []ProductInput) error {
	for i := range inputs {
		if err := inputs[i].Validate(); err != nil {
			return fmt.Errorf("product %d: %w", i, err)
		}
	}
	return nil
}

// MonitoringConfigInput is the payload for saving a monitoring config.
// Nil fields take the package defaults on insert and overwrite on update.
type MonitoringConfigInput struct {
	CompanyID      int64   `json:"company_id"`
	DaysBack       *int    `json:"days_back"`
	MaxProducts    *int    `json:"max_products"`
	CheckFrequency *string `json:"check_frequency"`
	IsEnabled      *bool   `json:"is_enabled"`
}

// Validate checks required fields.
func (in *MonitoringConfigInput) Validate() error {
	if in.CompanyID == 0 {
		return errors.New("company_id is required")
	}
	return nil
}

// Normalize returns the effective field values with defaults applied
// for anything omitted.
func (in *MonitoringConfigInput) Normalize() (daysBack, maxProducts int, checkFrequency string, isEnabled bool) {
	daysBack = DefaultDaysBack
	if in.DaysBack != nil {
		daysBack = *in.DaysBack
	}
	maxProducts = DefaultMaxProducts
	if in.MaxProducts != nil {
		maxProducts = *in.MaxProducts
	}
	checkFrequency = DefaultCheckFrequency
	if in.CheckFrequency != nil {
		checkFrequency = *in.CheckFrequency
	}
	isEnabled = true
	if in.IsEnabled != nil {
		isEnabled = *in.IsEnabled
	}
	return daysBack, maxProducts, checkFrequency, isEnabled
}
