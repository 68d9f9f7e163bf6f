// Package metrics defines the Prometheus collectors of the recommender.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recs_pipeline_stage_duration_seconds",
			Help:    "Duration of each fit pipeline stage",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		},
		[]string{"stage"}, // "vocabulary", "weights", "normalize", "similarity"
	)

	CorpusItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recs_corpus_items",
			Help: "Number of items in the fitted corpus",
		},
	)

	VocabularySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recs_vocabulary_terms",
			Help: "Number of distinct terms in the fitted vocabulary",
		},
	)

	ItemFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recs_item_failures_total",
			Help: "Items skipped or degraded during loading and fitting",
		},
		[]string{"stage"},
	)

	Queries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recs_queries_total",
			Help: "Similarity queries by operation and outcome",
		},
		[]string{"operation", "status"},
	)
)

// ObserveStage records how long a pipeline stage took since start.
func ObserveStage(stage string, start time.Time) {
	StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// RecordQuery counts a query outcome.
func RecordQuery(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	Queries.WithLabelValues(operation, status).Inc()
}
