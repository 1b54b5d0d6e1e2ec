// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests by route and status code.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homelib_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPDuration observes request latency by route.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "homelib_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// RecommendTier counts per-tier outcomes of the recommendation chain.
	// outcome is one of "hit", "miss", "error".
	RecommendTier = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homelib_recommend_tier_total",
			Help: "Recommendation tier outcomes",
		},
		[]string{"tier", "outcome"},
	)

	// ExternalRequestDuration observes outbound calls to remote services.
	ExternalRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "homelib_external_request_duration_seconds",
			Help:    "Duration of outbound requests to external services",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
		[]string{"service"},
	)
)

// ObserveExternal records one outbound call to the named service.
func ObserveExternal(service string, start time.Time) {
	ExternalRequestDuration.WithLabelValues(service).Observe(time.Since(start).Seconds())
}
