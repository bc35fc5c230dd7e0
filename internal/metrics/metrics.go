// Package metrics holds the process-wide prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "goldrates"

var (
	sourceFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_fetches_total",
		Help:      "Upstream source fetches by outcome.",
	}, []string{"source", "outcome"})

	sourceLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "source_fetch_seconds",
		Help:      "Upstream source fetch latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Revalidation cache lookups by result.",
	}, []string{"key", "result"})
)

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// ObserveSource records one fetch of source.
func ObserveSource(source, outcome string, elapsed time.Duration) {
	sourceFetches.WithLabelValues(source, outcome).Inc()
	sourceLatency.WithLabelValues(source).Observe(elapsed.Seconds())
}

// ObserveCache records a cache hit or miss for the key family.
func ObserveCache(family string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(family, result).Inc()
}
