package entity

import "time"

// RunStatus values for a search run.
const (
	RunPending   = "pending"
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// SearchRun tracks one asynchronous search submitted through the API.
type SearchRun struct {
	ID            string     `json:"id"`
	Status        string     `json:"status"`
	Seeds         int        `json:"seeds"`
	Round         int        `json:"round"`
	FrontierSize  int        `json:"frontier_size"`
	JobsFound     int        `json:"jobs_found"`
	FailedFetches int        `json:"failed_fetches"`
	SubmittedAt   time.Time  `json:"submitted_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
}
