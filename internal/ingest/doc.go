// Package ingest coordinates transactional bulk writes.
//
// Product batches tolerate duplicate external IDs: each record runs
// under its own savepoint, a uniqueness violation rolls back just that
// record and reports it as skipped, and any other failure aborts the
// whole batch. Company batches are all-or-nothing.
package ingest
