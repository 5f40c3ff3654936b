// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts entity cache lookups answered from the cache.
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of entity cache hits",
		},
		[]string{"entity"},
	)

	// CacheMisses counts entity cache lookups that fell through to the store.
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of entity cache misses",
		},
		[]string{"entity"},
	)

	// CacheErrors counts backend or decode failures swallowed by the cache.
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_errors_total",
			Help: "Total number of entity cache backend errors",
		},
		[]string{"entity", "operation"},
	)

	// HTTPRequestDuration observes request latency per route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	// RemindersSent counts overdue-task reminders by transport and result.
	RemindersSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_reminders_total",
			Help: "Total number of overdue task reminders handed to a notifier",
		},
		[]string{"transport", "status"}, // status: sent, failed
	)
)

// RecordCacheHit increments the hit counter for entity.
func RecordCacheHit(entity string) {
	CacheHits.WithLabelValues(entity).Inc()
}

// RecordCacheMiss increments the miss counter for entity.
func RecordCacheMiss(entity string) {
	CacheMisses.WithLabelValues(entity).Inc()
}

// RecordCacheError increments the error counter for entity and operation.
func RecordCacheError(entity, operation string) {
	CacheErrors.WithLabelValues(entity, operation).Inc()
}

// RecordHTTPRequestDuration observes one request.
func RecordHTTPRequestDuration(method, route, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// RecordReminder increments the reminder counter.
func RecordReminder(transport, status string) {
	RemindersSent.WithLabelValues(transport, status).Inc()
}
