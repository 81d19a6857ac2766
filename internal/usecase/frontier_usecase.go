package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/user/careerscan/internal/entity"
	"github.com/user/careerscan/pkg/metrics"
	"github.com/user/careerscan/pkg/utils"
)

const aboutBlank = "about:blank"

// DefaultExclusionPatterns are URL substrings of tracking and payment frames that
// never lead to postings.
var DefaultExclusionPatterns = []string{"recaptcha", "paypal", "stripe"}

// RoundSnapshot describes the state of a crawl after one round has been merged.
type RoundSnapshot struct {
	// Round is zero-based.
	Round int
	// Fetched is the number of frontier entries fetched in this round.
	Fetched int
	// Failures are the results of entries whose fetch failed in this round.
	Failures []entity.CrawlResult
	// Next is the frontier of the following round.
	Next []entity.FrontierEntry
	// Jobs is the finalized job set accumulated so far.
	Jobs []entity.JobRecord
}

// RoundObserver is called synchronously after every round.
type RoundObserver func(ctx context.Context, snapshot RoundSnapshot)

// FrontierEngine runs the multi-round crawl over a seed list.
type FrontierEngine struct {
	fetcher    BatchFetcher
	exclusions []string
	observers  []RoundObserver
	logger     *slog.Logger
}

// EngineOption configures a FrontierEngine.
type EngineOption func(*FrontierEngine)

// WithExclusionPatterns replaces DefaultExclusionPatterns. Matching is case-insensitive.
func WithExclusionPatterns(patterns []string) EngineOption {
	return func(e *FrontierEngine) {
		e.exclusions = lowerAll(patterns)
	}
}

// WithRoundObserver subscribes fn to per-round snapshots.
func WithRoundObserver(fn RoundObserver) EngineOption {
	return func(e *FrontierEngine) {
		e.observers = append(e.observers, fn)
	}
}

// WithEngineLogger sets the logger for round events.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *FrontierEngine) {
		e.logger = logger
	}
}

// NewFrontierEngine creates an engine that fetches pages through fetcher.
func NewFrontierEngine(fetcher BatchFetcher, opts ...EngineOption) *FrontierEngine {
	e := &FrontierEngine{
		fetcher:    fetcher,
		exclusions: lowerAll(DefaultExclusionPatterns),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Run crawls from seeds until no new, unvisited, non-excluded URL remains and returns
// the deduplicated, sorted job records. Invalid input is reported as *entity.ConfigError
// before any page is fetched. Page failures never fail the run; a cancelled ctx does,
// checked between rounds.
func (e *FrontierEngine) Run(ctx context.Context, seeds []entity.SeedEntry, policy entity.KeywordPolicy, batchSize int) ([]entity.JobRecord, error) {
	if err := ValidateRun(seeds, batchSize); err != nil {
		return nil, err
	}

	frontier := entity.Frontier(seeds)
	visited := make(visitedSet)
	var accumulated []entity.JobRecord

	for round := 0; len(frontier) > 0; round++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("crawl abandoned before round %d: %w", round, err)
		}

		e.logger.Info("Starting crawl round", "round", round, "frontier", len(frontier))

		results := make([]entity.CrawlResult, 0, len(frontier))
		for _, batch := range Batches(frontier, batchSize) {
			results = append(results, e.fetcher.FetchBatch(ctx, batch, policy)...)
		}

		var failures []entity.CrawlResult
		for _, r := range results {
			accumulated = append(accumulated, r.Jobs...)
			if r.Failed() {
				failures = append(failures, r)
			}
		}

		next := e.nextFrontier(results, visited)
		metrics.CrawlRoundsTotal.Inc()
		metrics.FrontierSize.Set(float64(len(next)))

		snapshot := RoundSnapshot{
			Round:    round,
			Fetched:  len(frontier),
			Failures: failures,
			Next:     next,
			Jobs:     Finalize(accumulated),
		}
		e.logger.Info("Crawl round finished",
			"round", round,
			"fetched", snapshot.Fetched,
			"failed", len(failures),
			"jobs", len(snapshot.Jobs),
			"next_frontier", len(next),
		)
		for _, observe := range e.observers {
			observe(ctx, snapshot)
		}

		frontier = next
	}

	return Finalize(accumulated), nil
}

// nextFrontier filters the URLs discovered in a round and marks the survivors visited.
// When several entries discover the same URL, the first one in frontier order keeps it.
func (e *FrontierEngine) nextFrontier(results []entity.CrawlResult, visited visitedSet) []entity.FrontierEntry {
	candidates := make(map[string]struct{})
	next := make([]entity.FrontierEntry, 0)

	for _, r := range results {
		for _, u := range r.DiscoveredURLs {
			if u == "" || u == aboutBlank || visited.Has(u) || e.excluded(u) {
				continue
			}
			if _, dup := candidates[u]; dup {
				continue
			}
			candidates[u] = struct{}{}
			next = append(next, entity.FrontierEntry{Organization: r.Organization, URL: u})
		}
	}

	for _, entry := range next {
		visited.Add(entry.URL)
	}
	return next
}

func (e *FrontierEngine) excluded(url string) bool {
	return utils.ContainsAny(strings.ToLower(url), e.exclusions)
}

// Batches splits frontier into consecutive chunks of at most size entries.
func Batches(frontier []entity.FrontierEntry, size int) [][]entity.FrontierEntry {
	if size < 1 {
		size = 1
	}
	batches := make([][]entity.FrontierEntry, 0, (len(frontier)+size-1)/size)
	for start := 0; start < len(frontier); start += size {
		end := min(start+size, len(frontier))
		batches = append(batches, frontier[start:end])
	}
	return batches
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
