package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/careerscan/internal/entity"
)

// FailedURLRepoImpl provides a concrete implementation for the FailedURLRepository interface using PostgreSQL.
type FailedURLRepoImpl struct {
	db *pgxpool.Pool
}

// NewFailedURLRepo creates a new instance of FailedURLRepoImpl.
func NewFailedURLRepo(db *pgxpool.Pool) *FailedURLRepoImpl {
	return &FailedURLRepoImpl{db: db}
}

// SaveOrUpdate creates or updates a record for a failed URL.
// It increments the attempt_count on conflict, so a retried page shows 2.
func (r *FailedURLRepoImpl) SaveOrUpdate(ctx context.Context, failedURL *entity.FailedURL) error {
	query := `
		INSERT INTO failed_urls (run_id, url, organization, kind, failure_reason, round, last_attempt_timestamp, attempt_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
		ON CONFLICT (run_id, url) DO UPDATE SET
			kind = EXCLUDED.kind,
			failure_reason = EXCLUDED.failure_reason,
			round = EXCLUDED.round,
			last_attempt_timestamp = EXCLUDED.last_attempt_timestamp,
			attempt_count = failed_urls.attempt_count + 1;
	`
	_, err := r.db.Exec(ctx, query,
		failedURL.RunID,
		failedURL.URL,
		failedURL.Organization,
		string(failedURL.Kind),
		failedURL.FailureReason,
		failedURL.Round,
		failedURL.LastAttemptTimestamp,
	)
	return err
}

// FindByRun retrieves the failures recorded for a run, most recent round first.
func (r *FailedURLRepoImpl) FindByRun(ctx context.Context, runID string) ([]*entity.FailedURL, error) {
	query := `
		SELECT id, run_id, url, organization, kind, failure_reason, round, last_attempt_timestamp, attempt_count
		FROM failed_urls
		WHERE run_id = $1
		ORDER BY round DESC, url ASC;
	`
	rows, err := r.db.Query(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	failedURLs := make([]*entity.FailedURL, 0)
	for rows.Next() {
		var fu entity.FailedURL
		var kind string
		if err := rows.Scan(
			&fu.ID,
			&fu.RunID,
			&fu.URL,
			&fu.Organization,
			&kind,
			&fu.FailureReason,
			&fu.Round,
			&fu.LastAttemptTimestamp,
			&fu.AttemptCount,
		); err != nil {
			return nil, err
		}
		fu.Kind = entity.FailureKind(kind)
		failedURLs = append(failedURLs, &fu)
	}

	return failedURLs, rows.Err()
}
