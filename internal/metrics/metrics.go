// Package metrics provides centralized Prometheus metrics registry for the HR predictor.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hr_predictor"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PipelineRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pipeline_runs_total",
		Help:      "Total number of matchup pipeline runs by outcome",
	}, []string{"outcome"})
	SchemaDegradationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "schema_degradations_total",
		Help:      "Features computed with a fallback because an input column was missing",
	}, []string{"kind", "feature"})
	JoinMissesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "join_misses_total",
		Help:      "Lineup entries without a matching feature row",
	}, []string{"kind"})
)

// Gauge metrics
var (
	MatchupRows = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "matchup_rows",
		Help:      "Number of matchup rows produced by the last run",
	})
	TopCompositeScore = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "top_composite_score",
		Help:      "Highest composite score of the last run",
	})
)

// Histogram metrics
var (
	PipelineDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pipeline_duration_seconds",
		Help:      "Duration of matchup pipeline runs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register pipeline metrics
		registry.MustRegister(PipelineRunsTotal)
		registry.MustRegister(SchemaDegradationsTotal)
		registry.MustRegister(JoinMissesTotal)
		registry.MustRegister(MatchupRows)
		registry.MustRegister(TopCompositeScore)
		registry.MustRegister(PipelineDuration)

		// Register data source metrics
		registry.MustRegister(UpstreamFailuresTotal)
		registry.MustRegister(UpstreamFetchDuration)
		registry.MustRegister(CacheLookupsTotal)
		registry.MustRegister(CacheHitRatio)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPipelineRun records a completed pipeline run.
func RecordPipelineRun(outcome string, durationSeconds float64, rows int, topScore float64) {
	PipelineRunsTotal.WithLabelValues(outcome).Inc()
	PipelineDuration.Observe(durationSeconds)
	MatchupRows.Set(float64(rows))
	TopCompositeScore.Set(topScore)
}

// RecordSchemaDegradation records a feature computed from a fallback.
func RecordSchemaDegradation(kind, feature string) {
	SchemaDegradationsTotal.WithLabelValues(kind, feature).Inc()
}

// RecordJoinMisses records lineup entries that found no feature row.
func RecordJoinMisses(kind string, count int) {
	if count <= 0 {
		return
	}
	JoinMissesTotal.WithLabelValues(kind).Add(float64(count))
}
