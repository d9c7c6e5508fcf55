package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "studio_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_generations_total",
			Help: "Total number of generation attempts",
		},
		[]string{"type", "quality", "status"},
	)

	TokensChargedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "studio_tokens_charged_total",
			Help: "Total tokens charged for completed generations",
		},
	)

	ProviderCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "studio_provider_call_duration_seconds",
			Help:    "Upstream image provider call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
		[]string{"operation"},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, path string, status int, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordGeneration records one generation attempt outcome.
func RecordGeneration(genType, quality, status string) {
	GenerationsTotal.WithLabelValues(genType, quality, status).Inc()
}

// RecordTokensCharged adds a completed charge to the running total.
func RecordTokensCharged(cost int) {
	if cost > 0 {
		TokensChargedTotal.Add(float64(cost))
	}
}

// RecordProviderCall records one upstream call duration.
func RecordProviderCall(operation string, duration float64) {
	ProviderCallDuration.WithLabelValues(operation).Observe(duration)
}
