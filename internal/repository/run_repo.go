package repository

import (
	"context"

	"github.com/user/careerscan/internal/entity"
)

// RunRepository keeps short-lived search run state.
type RunRepository interface {
	// Save stores the run, replacing any previous state.
	Save(ctx context.Context, run *entity.SearchRun) error
	// Get returns ErrRunNotFound for unknown or expired runs.
	Get(ctx context.Context, id string) (*entity.SearchRun, error)
	// SaveSnapshot stores the deduplicated records accumulated so far.
	SaveSnapshot(ctx context.Context, id string, records []entity.JobRecord) error
	// Snapshot returns the latest stored snapshot, or ErrRunNotFound.
	Snapshot(ctx context.Context, id string) ([]entity.JobRecord, error)
}
