package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultServerPort      = 8080
	DefaultRequestTimeout  = 30 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 20
	DefaultMinConns        = 2
	DefaultMaxConnIdleTime = 5 * time.Minute

	DefaultShopifyTimeout  = 15 * time.Second
	DefaultShopifyRetries  = 3
	DefaultShopifyBackoff  = 1 * time.Second
	DefaultShopifyPageSize = 250

	DefaultMonitorInterval    = 1 * time.Hour
	DefaultMonitorConcurrency = 5
	DefaultMonitorScanTimeout = 2 * time.Minute
)

func (c *Config) applyDefaults() {
	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = DefaultRequestTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}
	if c.Database.MaxConnIdleTime == 0 {
		c.Database.MaxConnIdleTime = DefaultMaxConnIdleTime
	}

	// Shopify client defaults
	if c.Shopify.Timeout == 0 {
		c.Shopify.Timeout = DefaultShopifyTimeout
	}
	if c.Shopify.MaxRetries == 0 {
		c.Shopify.MaxRetries = DefaultShopifyRetries
	}
	if c.Shopify.RetryBackoff == 0 {
		c.Shopify.RetryBackoff = DefaultShopifyBackoff
	}
	if c.Shopify.PageSize == 0 {
		c.Shopify.PageSize = DefaultShopifyPageSize
	}

	// Monitor defaults
	if c.Monitor.Interval == 0 {
		c.Monitor.Interval = DefaultMonitorInterval
	}
	if c.Monitor.Concurrency == 0 {
		c.Monitor.Concurrency = DefaultMonitorConcurrency
	}
	if c.Monitor.ScanTimeout == 0 {
		c.Monitor.ScanTimeout = DefaultMonitorScanTimeout
	}
}
