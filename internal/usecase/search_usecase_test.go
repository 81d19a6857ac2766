package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/careerscan/internal/entity"
	"github.com/user/careerscan/internal/repository"
)

type memRunRepo struct {
	mu        sync.Mutex
	runs      map[string]entity.SearchRun
	snapshots map[string][]entity.JobRecord
	saveErr   error
}

func newMemRunRepo() *memRunRepo {
	return &memRunRepo{runs: map[string]entity.SearchRun{}, snapshots: map[string][]entity.JobRecord{}}
}

func (r *memRunRepo) Save(_ context.Context, run *entity.SearchRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.runs[run.ID] = *run
	return nil
}

func (r *memRunRepo) Get(_ context.Context, id string) (*entity.SearchRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, repository.ErrRunNotFound
	}
	return &run, nil
}

func (r *memRunRepo) SaveSnapshot(_ context.Context, id string, records []entity.JobRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots[id] = append([]entity.JobRecord(nil), records...)
	return nil
}

func (r *memRunRepo) Snapshot(_ context.Context, id string) ([]entity.JobRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	records, ok := r.snapshots[id]
	if !ok {
		return nil, repository.ErrRunNotFound
	}
	return records, nil
}

type memJobRepo struct {
	mu      sync.Mutex
	records map[string][]entity.JobRecord
	saveErr error
}

func (r *memJobRepo) SaveAll(_ context.Context, runID string, records []entity.JobRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	if r.records == nil {
		r.records = map[string][]entity.JobRecord{}
	}
	r.records[runID] = append([]entity.JobRecord(nil), records...)
	return nil
}

func (r *memJobRepo) FindByRun(_ context.Context, runID string) ([]entity.JobRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.JobRecord{}, r.records[runID]...), nil
}

type memFailedURLRepo struct {
	mu     sync.Mutex
	failed map[string]*entity.FailedURL
}

func (r *memFailedURLRepo) SaveOrUpdate(_ context.Context, f *entity.FailedURL) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failed == nil {
		r.failed = map[string]*entity.FailedURL{}
	}
	key := f.RunID + "|" + f.URL
	if prev, ok := r.failed[key]; ok {
		f.AttemptCount = prev.AttemptCount + 1
	} else {
		f.AttemptCount = 1
	}
	stored := *f
	r.failed[key] = &stored
	return nil
}

func (r *memFailedURLRepo) FindByRun(_ context.Context, runID string) ([]*entity.FailedURL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.FailedURL
	for _, f := range r.failed {
		if f.RunID == runID {
			out = append(out, f)
		}
	}
	return out, nil
}

type managerFixture struct {
	manager  SearchManager
	renderer *fakeRenderer
	runs     *memRunRepo
	jobs     *memJobRepo
	failures *memFailedURLRepo
}

func newManagerFixture(t *testing.T, pages pageGraph, settings SearchSettings) *managerFixture {
	t.Helper()
	f := &managerFixture{
		renderer: newFakeRenderer(pages),
		runs:     newMemRunRepo(),
		jobs:     &memJobRepo{},
		failures: &memFailedURLRepo{},
	}
	f.manager = NewSearchManager(NewBatchFetcher(f.renderer), settings, f.runs, f.jobs, f.failures, nil)
	t.Cleanup(f.manager.Close)
	return f
}

func (f *managerFixture) waitFor(t *testing.T, id, status string) *entity.SearchRun {
	t.Helper()
	var run *entity.SearchRun
	require.Eventually(t, func() bool {
		var err error
		run, err = f.manager.Status(context.Background(), id)
		return err == nil && run.Status == status
	}, 2*time.Second, 5*time.Millisecond)
	return run
}

func TestSearchManager_CompletesAndStoresResults(t *testing.T) {
	pages := pageGraph{
		"https://acme.example/jobs": {
			OwnURL:    "https://acme.example/jobs",
			FrameURLs: []string{"https://acme.example/board"},
			HTML:      `<a href="/apply/1">Data Scientist</a>`,
		},
		"https://acme.example/board": {
			OwnURL: "https://acme.example/board",
			HTML:   `<a href="https://acme.example/apply/2">Research Engineer</a>`,
		},
	}
	f := newManagerFixture(t, pages, SearchSettings{BatchSize: 5})

	id, err := f.manager.Submit(context.Background(), SearchRequest{
		Seeds: []entity.SeedEntry{{Organization: "Acme", URL: "https://acme.example/jobs"}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	run := f.waitFor(t, id, entity.RunCompleted)
	assert.Equal(t, 2, run.Round)
	assert.Equal(t, 2, run.JobsFound)
	assert.Zero(t, run.FailedFetches)
	require.NotNil(t, run.FinishedAt)

	records, err := f.manager.Results(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []entity.JobRecord{
		{Organization: "Acme", Title: "Data Scientist", ApplyLink: "https://acme.example/apply/1"},
		{Organization: "Acme", Title: "Research Engineer", ApplyLink: "https://acme.example/apply/2"},
	}, records)
}

func TestSearchManager_RecordsFailedFetches(t *testing.T) {
	f := newManagerFixture(t, pageGraph{}, SearchSettings{BatchSize: 2})

	id, err := f.manager.Submit(context.Background(), SearchRequest{
		Seeds: []entity.SeedEntry{{Organization: "Down", URL: "https://down.example/careers"}},
	})
	require.NoError(t, err)

	run := f.waitFor(t, id, entity.RunCompleted)
	assert.Equal(t, 2, run.FailedFetches)

	failed, err := f.manager.Failures(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "https://down.example/careers", failed[0].URL)
	assert.Equal(t, entity.FailureTimeout, failed[0].Kind)
	assert.Equal(t, 2, failed[0].AttemptCount)
	assert.Equal(t, 1, failed[0].Round)
}

func TestSearchManager_UsesRequestKeywords(t *testing.T) {
	pages := pageGraph{
		"https://acme.example/jobs": {
			OwnURL: "https://acme.example/jobs",
			HTML:   `<a href="/a">Gardener</a><a href="/b">Senior Gardener</a><a href="/c">Data Scientist</a>`,
		},
	}
	f := newManagerFixture(t, pages, SearchSettings{BatchSize: 1})

	id, err := f.manager.Submit(context.Background(), SearchRequest{
		Seeds:   []entity.SeedEntry{{Organization: "Acme", URL: "https://acme.example/jobs"}},
		Include: []string{"gardener"},
		Exclude: []string{"senior"},
	})
	require.NoError(t, err)
	f.waitFor(t, id, entity.RunCompleted)

	records, err := f.manager.Results(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []entity.JobRecord{
		{Organization: "Acme", Title: "Gardener", ApplyLink: "https://acme.example/a"},
	}, records)
}

func TestSearchManager_SubmitRejectsInvalidInput(t *testing.T) {
	f := newManagerFixture(t, pageGraph{}, SearchSettings{BatchSize: 5})

	_, err := f.manager.Submit(context.Background(), SearchRequest{})
	var cfgErr *entity.ConfigError
	require.ErrorAs(t, err, &cfgErr)

	_, err = f.manager.Submit(context.Background(), SearchRequest{
		Seeds: []entity.SeedEntry{{Organization: "Acme", URL: "not a url"}},
	})
	require.ErrorAs(t, err, &cfgErr)
	assert.Empty(t, f.runs.runs)
}

func TestSearchManager_SubmitFailsWhenRunCannotBeRecorded(t *testing.T) {
	f := newManagerFixture(t, pageGraph{}, SearchSettings{BatchSize: 5})
	f.runs.saveErr = errUnexpected

	_, err := f.manager.Submit(context.Background(), SearchRequest{
		Seeds: []entity.SeedEntry{{Organization: "Acme", URL: "https://acme.example/jobs"}},
	})
	require.ErrorIs(t, err, errUnexpected)
}

func TestSearchManager_FailsWhenResultsCannotBeStored(t *testing.T) {
	pages := pageGraph{"https://acme.example/jobs": {OwnURL: "https://acme.example/jobs"}}
	f := newManagerFixture(t, pages, SearchSettings{BatchSize: 5})
	f.jobs.saveErr = errors.New("database unavailable")

	id, err := f.manager.Submit(context.Background(), SearchRequest{
		Seeds: []entity.SeedEntry{{Organization: "Acme", URL: "https://acme.example/jobs"}},
	})
	require.NoError(t, err)

	run := f.waitFor(t, id, entity.RunFailed)
	assert.Contains(t, run.FailureReason, "database unavailable")
}

func TestSearchManager_CloseAbandonsInFlightRuns(t *testing.T) {
	pages := pageGraph{"https://acme.example/jobs": {OwnURL: "https://acme.example/jobs"}}
	f := newManagerFixture(t, pages, SearchSettings{BatchSize: 5})
	f.renderer.gate = make(chan struct{})

	id, err := f.manager.Submit(context.Background(), SearchRequest{
		Seeds: []entity.SeedEntry{{Organization: "Acme", URL: "https://acme.example/jobs"}},
	})
	require.NoError(t, err)
	f.waitFor(t, id, entity.RunRunning)

	f.manager.Close()

	run, err := f.manager.Status(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.RunFailed, run.Status)
	assert.Contains(t, run.FailureReason, "context canceled")

	_, err = f.manager.Submit(context.Background(), SearchRequest{
		Seeds: []entity.SeedEntry{{Organization: "Acme", URL: "https://acme.example/jobs"}},
	})
	assert.ErrorIs(t, err, ErrManagerClosed)
}

func TestSearchManager_ResultsOfRunningSearchUseSnapshot(t *testing.T) {
	f := newManagerFixture(t, pageGraph{}, SearchSettings{BatchSize: 5})
	ctx := context.Background()
	snapshot := []entity.JobRecord{{Organization: "Acme", Title: "Engineer", ApplyLink: "https://acme.example/1"}}

	require.NoError(t, f.runs.Save(ctx, &entity.SearchRun{ID: "r1", Status: entity.RunRunning}))
	records, err := f.manager.Results(ctx, "r1")
	require.NoError(t, err)
	assert.Empty(t, records)

	require.NoError(t, f.runs.SaveSnapshot(ctx, "r1", snapshot))
	records, err = f.manager.Results(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, snapshot, records)
}

func TestSearchManager_ResultsOutliveExpiredRunState(t *testing.T) {
	f := newManagerFixture(t, pageGraph{}, SearchSettings{BatchSize: 5})
	ctx := context.Background()
	stored := []entity.JobRecord{{Organization: "Acme", Title: "Engineer", ApplyLink: "https://acme.example/1"}}
	require.NoError(t, f.jobs.SaveAll(ctx, "old", stored))

	records, err := f.manager.Results(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, stored, records)

	_, err = f.manager.Results(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrRunNotFound)

	_, err = f.manager.Status(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrRunNotFound)
}
