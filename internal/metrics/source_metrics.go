// Package metrics defines upstream and cache metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Data source counter vectors
var (
	UpstreamFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_failures_total",
		Help:      "Total number of failed upstream fetches by source",
	}, []string{"source"})

	CacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Raw data cache lookups by source and resolving tier",
	}, []string{"source", "tier"})
)

// Data source histogram vectors
var (
	UpstreamFetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_fetch_duration_seconds",
		Help:      "Duration of upstream fetches in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
	}, []string{"source"})
)

// Data source gauge vectors
var (
	CacheHitRatio = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_hit_ratio",
		Help:      "In-memory raw data cache hit ratio",
	}, []string{"cache"})
)

// RecordUpstreamFailure records a failed upstream fetch.
func RecordUpstreamFailure(source string) {
	UpstreamFailuresTotal.WithLabelValues(source).Inc()
}

// RecordUpstreamFetch records the duration of an upstream fetch.
func RecordUpstreamFetch(source string, durationSeconds float64) {
	UpstreamFetchDuration.WithLabelValues(source).Observe(durationSeconds)
}

// RecordCacheLookup records which tier resolved a cached day.
func RecordCacheLookup(source, tier string) {
	CacheLookupsTotal.WithLabelValues(source, tier).Inc()
}

// UpdateCacheHitRatio updates the hit ratio of an in-memory cache.
func UpdateCacheHitRatio(cache string, ratio float64) {
	CacheHitRatio.WithLabelValues(cache).Set(ratio)
}
