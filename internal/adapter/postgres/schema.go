package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS job_records (
	id            BIGSERIAL PRIMARY KEY,
	run_id        TEXT NOT NULL,
	organization  TEXT NOT NULL,
	title         TEXT NOT NULL,
	apply_link    TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (run_id, organization, title, apply_link)
);

CREATE TABLE IF NOT EXISTS failed_urls (
	id                     BIGSERIAL PRIMARY KEY,
	run_id                 TEXT NOT NULL,
	url                    TEXT NOT NULL,
	organization           TEXT NOT NULL,
	kind                   TEXT NOT NULL,
	failure_reason         TEXT NOT NULL,
	round                  INT NOT NULL,
	last_attempt_timestamp TIMESTAMPTZ NOT NULL,
	attempt_count          INT NOT NULL DEFAULT 1,
	UNIQUE (run_id, url)
);
`

// EnsureSchema creates the tables used by the repositories when they are missing.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
