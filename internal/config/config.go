package config

import "time"

// Config is the root configuration for the shopwatch server.
type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Database DBConfig      `yaml:"database"`
	Shopify  ShopifyConfig `yaml:"shopify"`
	Monitor  MonitorConfig `yaml:"monitor"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`  // per-request deadline, bounds pool acquisition too
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // graceful drain window
}

// DBConfig holds the PostgreSQL connection settings.
type DBConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Name            string        `yaml:"name"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxConns        int           `yaml:"max_conns"`
	MinConns        int           `yaml:"min_conns"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
}

// ShopifyConfig holds storefront catalog client settings.
type ShopifyConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
	PageSize     int           `yaml:"page_size"`
}

// MonitorConfig holds background scan scheduler settings.
type MonitorConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Interval    time.Duration `yaml:"interval"`     // how often the scheduler checks for due companies
	Concurrency int           `yaml:"concurrency"`  // max concurrent catalog scans
	ScanTimeout time.Duration `yaml:"scan_timeout"` // per-company scan deadline
}
