// Package database provides PostgreSQL connection pool management and
// error classification.
//
// All durable state lives in PostgreSQL: companies, products, monitoring
// configs, and the active-companies view. The pool bounds concurrent
// connections (default 20) and recycles idle ones.
package database
