package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tortrack",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method, path and status code.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tortrack",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   []float64{0.05, 0.1, 0.3, 0.5, 1, 2, 5, 10, 20},
	}, []string{"method", "path"})

	IndexerRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tortrack",
		Name:      "indexer_requests_total",
		Help:      "Total requests to the indexer aggregator by result status.",
	}, []string{"status"})

	IndexerRequestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tortrack",
		Name:      "indexer_request_duration_seconds",
		Help:      "Indexer aggregator request duration in seconds.",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30},
	})

	MetadataLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tortrack",
		Name:      "metadata_lookups_total",
		Help:      "Total metadata lookups by outcome (match, nomatch, skipped, error).",
	}, []string{"outcome"})

	MetadataLookupDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tortrack",
		Name:      "metadata_lookup_duration_seconds",
		Help:      "Metadata service lookup duration in seconds.",
		Buckets:   []float64{0.05, 0.1, 0.3, 0.5, 1, 2, 3, 5},
	})

	EnqueueTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tortrack",
		Name:      "download_enqueue_total",
		Help:      "Total download enqueue attempts by result status.",
	}, []string{"status"})
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		IndexerRequestsTotal,
		IndexerRequestDuration,
		MetadataLookupsTotal,
		MetadataLookupDuration,
		EnqueueTotal,
	)
}
