// Package schema declares the database schema and bootstraps it
// idempotently.
//
// Bootstrap applies every declared table, index, and view inside one
// transaction. Repeated calls converge: IF NOT EXISTS for tables and
// indexes, OR REPLACE for the view. A failed call rolls everything
// back and leaves prior state untouched.
package schema
