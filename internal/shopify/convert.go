package shopify

import (
	"strconv"
	"strings"
	"time"

	"github.com/rickgao/shopwatch/internal/model"
)

// ToProductInput converts a catalog product into an ingestion record
// for the given company. now anchors age calculations; products created
// within daysBack days are flagged as new.
func (p *CatalogProduct) ToProductInput(companyID int64, domain string, daysBack int, now time.Time) model.ProductInput {
	in := model.ProductInput{
		CompanyID:    companyID,
		Title:        p.Title,
		IsNewProduct: false,
	}

	if p.ID != 0 {
		id := p.ID
		in.ShopifyProductID = &id
	}
	if p.Handle != "" {
		handle := p.Handle
		in.Handle = &handle
		productURL := "https://" + normalizeDomain(domain) + "/products/" + p.Handle
		in.ProductURL = &productURL
	}
	if p.ProductType != "" {
		t := p.ProductType
		in.ProductType = &t
	}
	if p.Vendor != "" {
		v := p.Vendor
		in.Vendor = &v
	}
	if len(p.Tags) > 0 {
		tags := strings.Join(p.Tags, ", ")
		in.Tags = &tags
	}
	if len(p.Images) > 0 && p.Images[0].Src != "" {
		src := p.Images[0].Src
		in.ImageURL = &src
	}
	if len(p.Variants) > 0 {
		if price, err := strconv.ParseFloat(p.Variants[0].Price, 64); err == nil {
			in.Price = &price
		}
	}

	if !p.CreatedAt.IsZero() {
		created := p.CreatedAt
		in.ShopifyCreatedAt = &created

		daysOld := int(now.Sub(created).Hours() / 24)
		if daysOld < 0 {
			daysOld = 0
		}
		in.DaysOldWhenFound = &daysOld
		in.IsNewProduct = daysOld <= daysBack
	}

	return in
}

// ConvertCatalog maps a fetched catalog to ingestion records.
func ConvertCatalog(products []CatalogProduct, companyID int64, domain string, daysBack int, now time.Time) []model.ProductInput {
	inputs := make([]model.ProductInput, 0, len(products))
	for i := range products {
		inputs = append(inputs, products[i].ToProductInput(companyID, domain, daysBack, now))
	}
	return inputs
}
