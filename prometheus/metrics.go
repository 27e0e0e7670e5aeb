package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthSuccessCounter  prometheus.Counter
	AuthFailuresCounter prometheus.Counter
	AccountLockCounter  prometheus.Counter

	// Security gate metrics
	GateDecisionsCounter prometheus.CounterVec

	// Search metrics
	SearchQueriesCounter prometheus.CounterVec
	SearchDuration       prometheus.Histogram

	// Listing metrics
	ListingOperationsCounter prometheus.CounterVec
	ListingViewsCounter      prometheus.CounterVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec
)

// InitMetrics registers all metrics under the given prefix.  Call once at
// startup before serving traffic.
func InitMetrics(prefix string) {
	if prefix == "" {
		prefix = "estate"
	}

	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of login attempts",
		},
	)

	AuthSuccessCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_success_total",
			Help: "Total number of successful logins",
		},
	)

	AuthFailuresCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_failures_total",
			Help: "Total number of failed logins",
		},
	)

	AccountLockCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_account_locks_total",
			Help: "Total number of accounts locked by the failed-login threshold",
		},
	)

	GateDecisionsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_gate_decisions_total",
			Help: "Security gate decisions by outcome",
		},
		[]string{"outcome"},
	)

	SearchQueriesCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_search_queries_total",
			Help: "Listing search queries by sort order",
		},
		[]string{"sort"},
	)

	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    prefix + "_search_duration_seconds",
			Help:    "Duration of listing search queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ListingOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_listing_operations_total",
			Help: "Listing create/update/delete/status operations",
		},
		[]string{"operation"},
	)

	ListingViewsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_listing_views_total",
			Help: "Listing detail page views",
		},
		[]string{"listing_id"},
	)

	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)
}

// TrackDBOperation returns a function that records the duration of a
// database operation:
//
//	defer prometheus.TrackDBOperation("search")(time.Now())
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

// RecordSearch increments the search counter for one executed query.
func RecordSearch(sort string) {
	if sort == "" {
		sort = "latest"
	}
	SearchQueriesCounter.WithLabelValues(sort).Inc()
}

// RecordListingOperation increments the listing operation counter.
func RecordListingOperation(operation string) {
	ListingOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordGateDecision counts one security gate decision.
func RecordGateDecision(outcome string) {
	GateDecisionsCounter.WithLabelValues(outcome).Inc()
}
