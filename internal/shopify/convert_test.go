package shopify

import (
	"testing"
	"time"
)

func TestToProductInput(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	p := CatalogProduct{
		ID:          555,
		Title:       "Trail Jacket",
		Handle:      "trail-jacket",
		ProductType: "Outerwear",
		Vendor:      "Acme",
		CreatedAt:   now.AddDate(0, 0, -3),
		Tags:        []string{"jacket", "new-arrival"},
		Variants: []struct {
			Price string `json:"price"`
		}{{Price: "79.95"}},
		Images: []struct {
			Src string `json:"src"`
		}{{Src: "https://cdn.example.com/jacket.jpg"}},
	}

	in := p.ToProductInput(42, "https://shop.acme.com", 7, now)

	if in.CompanyID != 42 {
		t.Errorf("CompanyID = %d, want 42", in.CompanyID)
	}
	if in.ShopifyProductID == nil || *in.ShopifyProductID != 555 {
		t.Errorf("ShopifyProductID = %v, want 555", in.ShopifyProductID)
	}
	if in.Title != "Trail Jacket" {
		t.Errorf("Title = %q, want %q", in.Title, "Trail Jacket")
	}
	if in.Price == nil || *in.Price != 79.95 {
		t.Errorf("Price = %v, want 79.95", in.Price)
	}
	if in.Tags == nil || *in.Tags != "jacket, new-arrival" {
		t.Errorf("Tags = %v, want joined string", in.Tags)
	}
	if in.ProductURL == nil || *in.ProductURL != "https://shop.acme.com/products/trail-jacket" {
		t.Errorf("ProductURL = %v, want storefront product URL", in.ProductURL)
	}
	if in.DaysOldWhenFound == nil || *in.DaysOldWhenFound != 3 {
		t.Errorf("DaysOldWhenFound = %v, want 3", in.DaysOldWhenFound)
	}
	if !in.IsNewProduct {
		t.Error("IsNewProduct = false, want true (3 days old, 7 day window)")
	}
}

func TestToProductInputOldProduct(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	p := CatalogProduct{
		ID:        1,
		Title:     "Classic Boot",
		CreatedAt: now.AddDate(0, -6, 0),
	}

	in := p.ToProductInput(1, "shop.acme.com", 7, now)

	if in.IsNewProduct {
		t.Error("IsNewProduct = true for a six-month-old product, want false")
	}
	if in.Handle != nil {
		t.Errorf("Handle = %v, want nil for empty handle", in.Handle)
	}
	if in.Price != nil {
		t.Errorf("Price = %v, want nil without variants", in.Price)
	}
}

func TestToProductInputNoCreatedAt(t *testing.T) {
	in := (&CatalogProduct{ID: 1, Title: "X"}).ToProductInput(1, "d.com", 7, time.Now())
	if in.DaysOldWhenFound != nil {
		t.Errorf("DaysOldWhenFound = %v, want nil without created_at", in.DaysOldWhenFound)
	}
	if in.IsNewProduct {
		t.Error("IsNewProduct = true without created_at, want false")
	}
}

func TestConvertCatalog(t *testing.T) {
	now := time.Now()
	products := []CatalogProduct{
		{ID: 1, Title: "A"},
		{ID: 2, Title: "B"},
	}

	inputs := ConvertCatalog(products, 7, "shop.example.com", 7, now)
	if len(inputs) != 2 {
		t.Fatalf("got %d inputs, want 2", len(inputs))
	}
	for i, in := range inputs {
		if in.CompanyID != 7 {
			t.Errorf("input %d: CompanyID = %d, want 7", i, in.CompanyID)
		}
	}
}
