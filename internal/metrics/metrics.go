package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Search and embedding Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "galaxy",
			Name:      "searches_total",
			Help:      "Total number of searches by outcome",
		},
		[]string{"outcome"}, // found, empty, invalid_dir, error, cancelled
	)

	FilesScannedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "galaxy",
			Name:      "files_collected_total",
			Help:      "Files that matched the pattern and were read",
		},
	)

	FilesSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "galaxy",
			Name:      "files_skipped_total",
			Help:      "Files that matched the pattern but could not be read as text",
		},
	)

	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "galaxy",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingTextsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "galaxy",
			Name:      "embedding_texts_total",
			Help:      "Total number of texts sent for embedding",
		},
		[]string{"provider", "model"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "galaxy",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider", "model"},
	)
)

var registerOnce sync.Once

// Register registers all metrics with the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			SearchesTotal,
			FilesScannedTotal,
			FilesSkippedTotal,
			EmbeddingRequestsTotal,
			EmbeddingTextsTotal,
			EmbeddingRequestDuration,
		)
	})
}
