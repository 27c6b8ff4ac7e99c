// Package metrics exposes Prometheus counters for the relay pipeline.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	translationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "translay_translations_total",
		Help: "Translation requests by terminal HTTP status.",
	}, []string{"status"})

	retriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "translay_retries_total",
		Help: "Retried upstream attempts.",
	})

	rateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "translay_ratelimit_rejections_total",
		Help: "Admission rejections by reason.",
	}, []string{"reason"})

	upstreamAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "translay_upstream_attempts_total",
		Help: "Upstream attempts by outcome.",
	}, []string{"outcome"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "translay_http_requests_total",
		Help: "Inbound HTTP requests by method, route pattern, and status.",
	}, []string{"method", "endpoint", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "translay_http_request_duration_seconds",
		Help:    "Inbound HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"})

	panicsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "translay_panics_total",
		Help: "Recovered handler panics.",
	})
)

// RecordTranslation records one finished translation call.
func RecordTranslation(httpStatus int) {
	translationsTotal.WithLabelValues(strconv.Itoa(httpStatus)).Inc()
}

// RecordRetry records one retried attempt.
func RecordRetry() {
	retriesTotal.Inc()
}

// RecordRateLimitRejection records one admission rejection.
func RecordRateLimitRejection(reason string) {
	rateLimitRejections.WithLabelValues(reason).Inc()
}

// RecordUpstreamAttempt records an upstream attempt outcome ("ok" or "error").
func RecordUpstreamAttempt(success bool) {
	outcome := "ok"
	if !success {
		outcome = "error"
	}
	upstreamAttempts.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest records one served inbound request. Endpoint is the chi
// route pattern, never the raw path, to keep label cardinality bounded.
func RecordHTTPRequest(method, endpoint string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordPanic records one recovered handler panic.
func RecordPanic() {
	panicsTotal.Inc()
}
