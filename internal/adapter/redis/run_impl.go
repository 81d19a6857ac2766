package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/careerscan/internal/entity"
	"github.com/user/careerscan/internal/repository"
)

const (
	runKeyPrefix      = "careerscan:run:"
	snapshotKeyPrefix = "careerscan:snapshot:"
)

// RunRepoImpl provides a concrete implementation for the RunRepository interface using Redis.
// Every key expires ttl after its last write.
type RunRepoImpl struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRunRepo creates a new instance of RunRepoImpl.
func NewRunRepo(client *redis.Client, ttl time.Duration) *RunRepoImpl {
	return &RunRepoImpl{client: client, ttl: ttl}
}

func (r *RunRepoImpl) runKey(id string) string {
	return fmt.Sprintf("%s%s", runKeyPrefix, id)
}

func (r *RunRepoImpl) snapshotKey(id string) string {
	return fmt.Sprintf("%s%s", snapshotKeyPrefix, id)
}

// Save stores the run as JSON.
func (r *RunRepoImpl) Save(ctx context.Context, run *entity.SearchRun) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.runKey(run.ID), payload, r.ttl).Err()
}

// Get loads a run, mapping a missing key to repository.ErrRunNotFound.
func (r *RunRepoImpl) Get(ctx context.Context, id string) (*entity.SearchRun, error) {
	val, err := r.client.Get(ctx, r.runKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrRunNotFound
		}
		return nil, err
	}

	var run entity.SearchRun
	if err := json.Unmarshal(val, &run); err != nil {
		return nil, fmt.Errorf("failed to decode run %s: %w", id, err)
	}
	return &run, nil
}

// SaveSnapshot overwrites the stored partial result set of a run.
func (r *RunRepoImpl) SaveSnapshot(ctx context.Context, id string, records []entity.JobRecord) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.snapshotKey(id), payload, r.ttl).Err()
}

// Snapshot returns the latest partial result set of a run.
func (r *RunRepoImpl) Snapshot(ctx context.Context, id string) ([]entity.JobRecord, error) {
	val, err := r.client.Get(ctx, r.snapshotKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrRunNotFound
		}
		return nil, err
	}

	var records []entity.JobRecord
	if err := json.Unmarshal(val, &records); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", id, err)
	}
	return records, nil
}
