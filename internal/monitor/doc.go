// Package monitor implements the background scan scheduler.
//
// The scheduler:
//   - Wakes on an interval and reads the active-companies view
//   - Picks companies whose check frequency has elapsed since last_monitored
//   - Scans their storefront catalogs with bounded concurrency
//   - Ingests results and stamps last_monitored
package monitor
