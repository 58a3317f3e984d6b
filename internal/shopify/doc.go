// Package shopify fetches public storefront catalogs.
//
// Shopify stores expose /products.json without authentication. The
// client pages through it (250 products per page, the storefront cap)
// and converts the payload into product inputs for ingestion.
package shopify
