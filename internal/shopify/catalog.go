package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// StoreError represents an HTTP error from a storefront.
type StoreError struct {
	StatusCode int
	URL        string
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("storefront error %d: %s", e.StatusCode, e.URL)
}

// IsRetryable returns true if the error should trigger a retry.
func (e *StoreError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// CatalogProduct is one product of a storefront /products.json payload.
type CatalogProduct struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Handle      string    `json:"handle"`
	ProductType string    `json:"product_type"`
	Vendor      string    `json:"vendor"`
	CreatedAt   time.Time `json:"created_at"`
	Tags        []string  `json:"tags"`

	Variants []struct {
		Price string `json:"price"`
	} `json:"variants"`

	Images []struct {
		Src string `json:"src"`
	} `json:"images"`
}

type catalogPage struct {
	Products []CatalogProduct `json:"products"`
}

// FetchCatalog pages through a store's products.json until an empty
// page or maxProducts is reached. maxProducts <= 0 means no cap.
func (c *Client) FetchCatalog(ctx context.Context, domain string, maxProducts int) ([]CatalogProduct, error) {
	domain = normalizeDomain(domain)

	var products []CatalogProduct
	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(c.pageSize))
		query.Set("page", strconv.Itoa(page))

		fetched, err := c.fetchPage(ctx, domain, query)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d of %s: %w", page, domain, err)
		}
		if len(fetched) == 0 {
			break
		}

		products = append(products, fetched...)
		if maxProducts > 0 && len(products) >= maxProducts {
			products = products[:maxProducts]
			break
		}
		if len(fetched) < c.pageSize {
			break
		}
	}

	c.logger.Debug("catalog fetched", "domain", domain, "products", len(products))
	return products, nil
}

// fetchPage performs one page request with exponential backoff retry.
func (c *Client) fetchPage(ctx context.Context, domain string, query url.Values) ([]CatalogProduct, error) {
	fullURL := "https://" + domain + "/products.json?" + query.Encode()

	var lastErr error
	backoff := c.retryBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Add jitter: backoff * (0.5 to 1.5)
			jitter := backoff/2 + time.Duration(rand.Int63n(int64(backoff)))
			c.logger.Debug("retrying catalog fetch",
				"attempt", attempt,
				"backoff", jitter,
				"url", fullURL,
			)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(jitter):
			}

			backoff *= 2
		}

		page, err := c.doFetch(ctx, fullURL)
		if err == nil {
			return page, nil
		}

		lastErr = err

		storeErr, ok := err.(*StoreError)
		if !ok || !storeErr.IsRetryable() {
			return nil, err
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) doFetch(ctx context.Context, fullURL string) ([]CatalogProduct, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &StoreError{StatusCode: resp.StatusCode, URL: fullURL}
	}

	var page catalogPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}
	return page.Products, nil
}

// normalizeDomain strips any scheme or path so configs can hold either
// "shop.example.com" or a full URL.
func normalizeDomain(domain string) string {
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	if i := strings.IndexByte(domain, '/'); i >= 0 {
		domain = domain[:i]
	}
	return domain
}
