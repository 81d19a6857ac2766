package repository

import (
	"context"

	"github.com/user/careerscan/internal/entity"
)

// JobRecordRepository stores the final result set of a search run.
type JobRecordRepository interface {
	// SaveAll replaces the stored records of runID with records.
	SaveAll(ctx context.Context, runID string, records []entity.JobRecord) error
	// FindByRun returns the records of runID ordered by organization and title.
	FindByRun(ctx context.Context, runID string) ([]entity.JobRecord, error)
}
