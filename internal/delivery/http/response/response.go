package response

import "github.com/user/careerscan/internal/entity"

type SubmitSearchResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	RunID   string `json:"run_id"`
}

// ErrorResponse carries a message and, for rejected input, every problem found.
type ErrorResponse struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
}

type JobRecordsResponse struct {
	RunID string             `json:"run_id"`
	Count int                `json:"count"`
	Jobs  []entity.JobRecord `json:"jobs"`
}

// FailedURLResponse is a DTO for entity.FailedURL.
type FailedURLResponse struct {
	URL           string `json:"url"`
	Organization  string `json:"organization"`
	Kind          string `json:"kind"`
	FailureReason string `json:"failure_reason"`
	Round         int    `json:"round"`
	AttemptCount  int    `json:"attempt_count"`
}

type FailuresResponse struct {
	RunID    string              `json:"run_id"`
	Failures []FailedURLResponse `json:"failures"`
}
