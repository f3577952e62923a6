// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served.",
		},
		[]string{"method", "endpoint", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
	UpstreamFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_fetch_total",
			Help: "Upstream page fetch attempts by path and outcome.",
		},
		[]string{"via", "outcome"},
	)
	UpstreamFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_fetch_duration_seconds",
			Help:    "Duration of upstream page fetch attempts in seconds.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"via"},
	)
	RemoteConfigRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remote_config_refresh_total",
			Help: "Remote config refreshes by key and outcome.",
		},
		[]string{"key", "outcome"},
	)
	ResponseCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "response_cache_lookups_total",
			Help: "Response cache lookups by tier and result.",
		},
		[]string{"tier", "result"},
	)
)

// Outcome labels
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeFallback = "fallback"
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(UpstreamFetchTotal)
	prometheus.MustRegister(UpstreamFetchDuration)
	prometheus.MustRegister(RemoteConfigRefreshTotal)
	prometheus.MustRegister(ResponseCacheTotal)
}
