// Package store wraps the parameterized SQL statements for each
// entity.
//
// Every store takes a database.Querier, so the same statements run
// against the pool directly or inside a transaction opened by the
// ingestion orchestrator. Not-found rows surface as database.ErrNotFound;
// constraint violations pass through for the caller to classify.
package store
