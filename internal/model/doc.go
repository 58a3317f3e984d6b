// Package model defines the shared data types for shopwatch.
//
// All types mirror the database schema created by internal/schema.
//
// Conventions:
//   - Optional columns: pointer fields, nil maps to SQL NULL
//   - Timestamps: time.Time in UTC, stored as timestamptz
//   - IDs: int64 serial keys; shopify_product_id is the external identifier
package model
