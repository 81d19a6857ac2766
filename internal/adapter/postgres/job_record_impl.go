package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/careerscan/internal/entity"
)

// JobRecordRepoImpl provides a concrete implementation for the JobRecordRepository interface using PostgreSQL.
type JobRecordRepoImpl struct {
	db *pgxpool.Pool
}

// NewJobRecordRepo creates a new instance of JobRecordRepoImpl.
func NewJobRecordRepo(db *pgxpool.Pool) *JobRecordRepoImpl {
	return &JobRecordRepoImpl{db: db}
}

// SaveAll replaces the records of a run within a single transaction.
func (r *JobRecordRepoImpl) SaveAll(ctx context.Context, runID string, records []entity.JobRecord) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM job_records WHERE run_id = $1;`, runID); err != nil {
		return err
	}

	if len(records) > 0 {
		batch := &pgx.Batch{}
		for _, rec := range records {
			batch.Queue(`
				INSERT INTO job_records (run_id, organization, title, apply_link)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (run_id, organization, title, apply_link) DO NOTHING;`,
				runID, rec.Organization, rec.Title, rec.ApplyLink)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// FindByRun retrieves the records of a run ordered by organization, title and link.
func (r *JobRecordRepoImpl) FindByRun(ctx context.Context, runID string) ([]entity.JobRecord, error) {
	query := `
		SELECT organization, title, apply_link
		FROM job_records
		WHERE run_id = $1
		ORDER BY organization, title, apply_link;
	`
	rows, err := r.db.Query(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]entity.JobRecord, 0)
	for rows.Next() {
		var rec entity.JobRecord
		if err := rows.Scan(&rec.Organization, &rec.Title, &rec.ApplyLink); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
