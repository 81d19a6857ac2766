package entity

import "time"

// FailedURL mirrors the `failed_urls` PostgreSQL table: a page that could not be
// fetched during a search run.
type FailedURL struct {
	ID                   int64
	RunID                string
	URL                  string
	Organization         string
	Kind                 FailureKind
	FailureReason        string
	Round                int
	LastAttemptTimestamp time.Time
	AttemptCount         int
}
