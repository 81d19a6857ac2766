package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/user/careerscan/internal/entity"
	"github.com/user/careerscan/internal/repository"
	"github.com/user/careerscan/pkg/metrics"
)

// persistTimeout bounds the final writes of a run, which happen after its crawl context may be gone.
const persistTimeout = 30 * time.Second

// ErrManagerClosed is returned by Submit after Close.
var ErrManagerClosed = errors.New("search manager is closed")

// SearchRequest is one search submitted by a client.
type SearchRequest struct {
	Seeds   []entity.SeedEntry `json:"seeds"`
	Include []string           `json:"include"`
	Exclude []string           `json:"exclude"`
}

// SearchSettings holds the crawl parameters shared by every run.
type SearchSettings struct {
	BatchSize         int
	ExclusionPatterns []string
	MaxRunDuration    time.Duration
}

// SearchManager runs searches in the background and serves their state.
type SearchManager interface {
	// Submit validates req, records a pending run and starts it. It returns the run ID.
	Submit(ctx context.Context, req SearchRequest) (string, error)
	// Status returns the current run state.
	Status(ctx context.Context, id string) (*entity.SearchRun, error)
	// Results returns the final records of a completed run, or the latest snapshot otherwise.
	Results(ctx context.Context, id string) ([]entity.JobRecord, error)
	// Failures lists the pages that could not be fetched during a run.
	Failures(ctx context.Context, id string) ([]*entity.FailedURL, error)
	// Close cancels in-flight runs and waits for them to record their outcome.
	Close()
}

type searchManager struct {
	fetcher  BatchFetcher
	settings SearchSettings
	runs     repository.RunRepository
	jobs     repository.JobRecordRepository
	failures repository.FailedURLRepository
	logger   *slog.Logger
	now      func() time.Time

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
}

// NewSearchManager creates a new SearchManager.
func NewSearchManager(
	fetcher BatchFetcher,
	settings SearchSettings,
	runs repository.RunRepository,
	jobs repository.JobRecordRepository,
	failures repository.FailedURLRepository,
	logger *slog.Logger,
) SearchManager {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &searchManager{
		fetcher:  fetcher,
		settings: settings,
		runs:     runs,
		jobs:     jobs,
		failures: failures,
		logger:   logger,
		now:      time.Now,
		baseCtx:  ctx,
		cancel:   cancel,
	}
}

func (m *searchManager) Submit(ctx context.Context, req SearchRequest) (string, error) {
	if len(req.Seeds) == 0 {
		return "", &entity.ConfigError{Problems: []string{"at least one seed is required"}}
	}
	if err := ValidateRun(req.Seeds, m.settings.BatchSize); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", ErrManagerClosed
	}

	run := &entity.SearchRun{
		ID:          uuid.NewString(),
		Status:      entity.RunPending,
		Seeds:       len(req.Seeds),
		SubmittedAt: m.now().UTC(),
	}
	if err := m.runs.Save(ctx, run); err != nil {
		return "", fmt.Errorf("failed to record search run: %w", err)
	}

	m.wg.Add(1)
	go m.execute(run, req)

	m.logger.Info("Search submitted", "run_id", run.ID, "seeds", run.Seeds)
	return run.ID, nil
}

// execute owns run until it finishes; the engine calls observers on this goroutine.
func (m *searchManager) execute(run *entity.SearchRun, req SearchRequest) {
	defer m.wg.Done()

	logger := m.logger.With("run_id", run.ID)
	ctx := m.baseCtx
	if m.settings.MaxRunDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.settings.MaxRunDuration)
		defer cancel()
	}

	run.Status = entity.RunRunning
	m.saveRun(ctx, logger, run)

	opts := []EngineOption{
		WithEngineLogger(logger),
		WithRoundObserver(m.observe(run, logger)),
	}
	if m.settings.ExclusionPatterns != nil {
		opts = append(opts, WithExclusionPatterns(m.settings.ExclusionPatterns))
	}
	engine := NewFrontierEngine(m.fetcher, opts...)

	records, err := engine.Run(ctx, req.Seeds, entity.NewKeywordPolicy(req.Include, req.Exclude), m.settings.BatchSize)

	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if err == nil {
		if saveErr := m.jobs.SaveAll(persistCtx, run.ID, records); saveErr != nil {
			err = fmt.Errorf("failed to store results: %w", saveErr)
		}
	}

	finished := m.now().UTC()
	run.FinishedAt = &finished
	if err != nil {
		run.Status = entity.RunFailed
		run.FailureReason = err.Error()
		logger.Error("Search run failed", "error", err)
	} else {
		run.Status = entity.RunCompleted
		run.JobsFound = len(records)
		run.FrontierSize = 0
		logger.Info("Search run completed", "jobs", len(records), "rounds", run.Round)
	}
	metrics.SearchRunsTotal.WithLabelValues(run.Status).Inc()
	m.saveRun(persistCtx, logger, run)
}

// observe publishes round progress and records fetch failures.
func (m *searchManager) observe(run *entity.SearchRun, logger *slog.Logger) RoundObserver {
	return func(ctx context.Context, s RoundSnapshot) {
		run.Round = s.Round + 1
		run.FrontierSize = len(s.Next)
		run.JobsFound = len(s.Jobs)
		run.FailedFetches += len(s.Failures)

		for _, f := range s.Failures {
			fetchErr := AsFetchError(f.URL, f.Err)
			failed := &entity.FailedURL{
				RunID:                run.ID,
				URL:                  f.URL,
				Organization:         f.Organization,
				Kind:                 fetchErr.Kind,
				FailureReason:        fetchErr.Error(),
				Round:                s.Round,
				LastAttemptTimestamp: m.now().UTC(),
			}
			if err := m.failures.SaveOrUpdate(ctx, failed); err != nil {
				logger.Warn("Failed to record failed URL", "url", f.URL, "error", err)
			}
		}

		if err := m.runs.SaveSnapshot(ctx, run.ID, s.Jobs); err != nil {
			logger.Warn("Failed to store round snapshot", "round", s.Round, "error", err)
		}
		m.saveRun(ctx, logger, run)
	}
}

func (m *searchManager) saveRun(ctx context.Context, logger *slog.Logger, run *entity.SearchRun) {
	if err := m.runs.Save(ctx, run); err != nil {
		logger.Warn("Failed to store run state", "status", run.Status, "error", err)
	}
}

func (m *searchManager) Status(ctx context.Context, id string) (*entity.SearchRun, error) {
	return m.runs.Get(ctx, id)
}

func (m *searchManager) Results(ctx context.Context, id string) ([]entity.JobRecord, error) {
	run, err := m.runs.Get(ctx, id)
	switch {
	case errors.Is(err, repository.ErrRunNotFound):
		// Run state expired; stored results outlive it.
		records, err := m.jobs.FindByRun(ctx, id)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, repository.ErrRunNotFound
		}
		return records, nil
	case err != nil:
		return nil, err
	case run.Status == entity.RunCompleted:
		return m.jobs.FindByRun(ctx, id)
	}

	records, err := m.runs.Snapshot(ctx, id)
	if errors.Is(err, repository.ErrRunNotFound) {
		return []entity.JobRecord{}, nil
	}
	return records, err
}

func (m *searchManager) Failures(ctx context.Context, id string) ([]*entity.FailedURL, error) {
	if _, err := m.runs.Get(ctx, id); err != nil {
		return nil, err
	}
	return m.failures.FindByRun(ctx, id)
}

func (m *searchManager) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.cancel()
	m.wg.Wait()
}
