package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/user/careerscan/internal/entity"
	"github.com/user/careerscan/internal/repository"
)

// pageGraph is a fake site map: url -> rendered page. Missing urls fail to load.
type pageGraph map[string]*entity.RenderedPage

// fakeRenderer serves pages from a pageGraph and records every navigation.
type fakeRenderer struct {
	mu       sync.Mutex
	pages    pageGraph
	calls    []string
	inFlight int
	peak     int
	gate     chan struct{}
}

func newFakeRenderer(pages pageGraph) *fakeRenderer {
	return &fakeRenderer{pages: pages}
}

func (r *fakeRenderer) Navigate(ctx context.Context, url string) (*entity.RenderedPage, error) {
	r.mu.Lock()
	r.calls = append(r.calls, url)
	r.inFlight++
	if r.inFlight > r.peak {
		r.peak = r.inFlight
	}
	gate := r.gate
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.inFlight--
		r.mu.Unlock()
	}()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	page, ok := r.pages[url]
	if !ok {
		return nil, &entity.FetchError{URL: url, Kind: entity.FailureTimeout, Cause: repository.ErrNavigationTimeout}
	}
	if page == nil {
		panic("renderer crashed")
	}
	return page, nil
}

func (r *fakeRenderer) count(url string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == url {
			n++
		}
	}
	return n
}

// recordingFetcher wraps a BatchFetcher and records each batch it receives.
type recordingFetcher struct {
	inner   BatchFetcher
	batches [][]entity.FrontierEntry
}

func (f *recordingFetcher) FetchBatch(ctx context.Context, entries []entity.FrontierEntry, policy entity.KeywordPolicy) []entity.CrawlResult {
	f.batches = append(f.batches, append([]entity.FrontierEntry(nil), entries...))
	return f.inner.FetchBatch(ctx, entries, policy)
}

var errUnexpected = errors.New("unexpected")
