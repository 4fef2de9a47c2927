package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Intercepted requests by classifier verdict
	InterceptedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_requests_total",
			Help: "Total number of requests seen by the worker, by strategy",
		},
		[]string{"strategy"},
	)

	// Where each strategy run found its response
	StrategyResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strategy_responses_total",
			Help: "Total number of strategy responses by source (network, cache, synthesized)",
		},
		[]string{"strategy", "source"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of bucket lookups that found an entry",
		},
		[]string{"role", "level"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of bucket lookups that found nothing",
		},
		[]string{"role"},
	)

	// Cache write failures are swallowed; this counter is their only trace besides logs
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_errors_total",
			Help: "Total number of cache storage errors",
		},
		[]string{"level", "kind"},
	)

	GenerationsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_generations_deleted_total",
			Help: "Total number of stale buckets deleted on activation",
		},
	)

	WorkerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_state",
			Help: "Current worker lifecycle state (1 for the active state)",
		},
		[]string{"state"},
	)

	StrategyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "strategy_duration_seconds",
			Help:    "Duration of strategy runs",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)

	// L1 capacity metrics only (L1 is in-memory)
	CacheCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_capacity_bytes",
			Help: "L1 cache capacity in bytes",
		},
		[]string{"level"}, // only "l1"
	)

	CacheKeys = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_keys",
			Help: "Number of entries held per cache level",
		},
		[]string{"level"},
	)

	CartMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_mutations_total",
			Help: "Total number of cart ledger mutations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
)

// RecordIntercepted records a request routed to a strategy
func RecordIntercepted(strategy string) {
	InterceptedRequests.WithLabelValues(strategy).Inc()
}

// RecordStrategyResponse records where a strategy found its response
func RecordStrategyResponse(strategy, source string) {
	StrategyResponses.WithLabelValues(strategy, source).Inc()
}

// RecordCacheHit records a bucket hit
func RecordCacheHit(role, level string) {
	CacheHits.WithLabelValues(role, level).Inc()
}

// RecordCacheMiss records a bucket miss
func RecordCacheMiss(role string) {
	CacheMisses.WithLabelValues(role).Inc()
}

// RecordCacheError records a cache error with level and kind
func RecordCacheError(level, kind string) {
	CacheErrors.WithLabelValues(level, kind).Inc()
}

// RecordGenerationDeleted records a stale bucket removed on activation
func RecordGenerationDeleted() {
	GenerationsDeleted.Inc()
}

// SetWorkerState marks state as the only active lifecycle state
func SetWorkerState(state string, all []string) {
	for _, s := range all {
		value := 0.0
		if s == state {
			value = 1.0
		}
		WorkerState.WithLabelValues(s).Set(value)
	}
}

// UpdateL1CacheCapacity updates L1 cache capacity metrics only
func UpdateL1CacheCapacity(capacity int64) {
	CacheCapacity.WithLabelValues("l1").Set(float64(capacity))
}

// UpdateCacheKeys updates the number of keys in cache
func UpdateCacheKeys(level string, count int64) {
	CacheKeys.WithLabelValues(level).Set(float64(count))
}

// RecordCartMutation records a ledger mutation outcome ("ok" or "error")
func RecordCartMutation(operation, outcome string) {
	CartMutations.WithLabelValues(operation, outcome).Inc()
}

// TimeStrategy returns a timer function for measuring one strategy run
func TimeStrategy(strategy string) func() {
	timer := prometheus.NewTimer(StrategyDuration.WithLabelValues(strategy))
	return func() {
		timer.ObserveDuration()
	}
}
