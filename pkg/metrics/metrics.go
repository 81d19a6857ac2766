package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	PageFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "page_fetches_total",
			Help: "Total number of page fetch attempts.",
		},
		[]string{"status", "error_type"}, // status: success, failure
	)

	PageFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "page_fetch_duration_seconds",
			Help:    "Duration of page render and extraction.",
			Buckets: []float64{1, 2, 5, 10, 15, 20, 30, 60},
		},
		[]string{"host"},
	)

	FrontierSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "frontier_size",
			Help: "Number of URLs scheduled for the next crawl round.",
		},
	)

	CrawlRoundsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crawl_rounds_total",
			Help: "Total number of completed crawl rounds.",
		},
	)

	JobsDiscoveredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobs_discovered_total",
			Help: "Total number of classified job links, before deduplication.",
		},
	)

	SearchRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_runs_total",
			Help: "Total number of finished search runs.",
		},
		[]string{"status"},
	)
)
