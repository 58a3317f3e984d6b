// Package server exposes the REST API.
//
// All routes live under /api. Handlers validate payloads before
// touching the store, map classified store errors to status codes
// (404 not found, 409 duplicate, 400 bad reference), and never leak
// internal detail on a 500.
package server
