package repository

import (
	"context"

	"github.com/user/careerscan/internal/entity"
)

// FailedURLRepository records pages that failed during a search run.
type FailedURLRepository interface {
	// SaveOrUpdate creates or updates the record for (RunID, URL), incrementing the attempt count.
	SaveOrUpdate(ctx context.Context, failedURL *entity.FailedURL) error
	// FindByRun lists the failures of a run.
	FindByRun(ctx context.Context, runID string) ([]*entity.FailedURL, error)
}
