package scheduler

// Package scheduler provides scheduled job management for the screener backend.
// It handles:
// - Daily indicator snapshot batches after market close
// - Daily cross-sectional RS rating passes
// - Periodic cleanup of stale snapshots and prices
//
// The main scheduler is implemented in jobs.go
