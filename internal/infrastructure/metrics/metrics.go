package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// roottrack-api metrics
var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roottrack",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "roottrack",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Analysis requests by kind and outcome (success, raw, rate_limited, ...)
	AnalysisTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roottrack",
			Subsystem: "api",
			Name:      "analysis_requests_total",
			Help:      "Total AI analysis requests by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "roottrack",
			Subsystem: "api",
			Name:      "upstream_duration_seconds",
			Help:      "AI provider call duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"provider", "status"},
	)

	ActivityPublishErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "roottrack",
			Subsystem: "api",
			Name:      "activity_publish_errors_total",
			Help:      "Activity events that could not be published",
		},
	)

	DashboardCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roottrack",
			Subsystem: "api",
			Name:      "dashboard_cache_total",
			Help:      "Dashboard cache lookups by result",
		},
		[]string{"result"},
	)
)

// analysisCounter mirrors AnalysisTotal on the OTLP pipeline. Instruments from
// the global meter follow the provider installed later by observability.Setup.
var analysisCounter, _ = otel.Meter("roottrack-api").Int64Counter(
	"roottrack.analysis.requests",
	metric.WithDescription("AI analysis requests by kind and outcome"),
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint, status).Observe(durationSec)
}

// RecordAnalysis records the outcome of one analysis request
func RecordAnalysis(kind, outcome string) {
	if kind == "" {
		kind = "unknown"
	}
	AnalysisTotal.WithLabelValues(kind, outcome).Inc()
	if analysisCounter != nil {
		analysisCounter.Add(context.Background(), 1, metric.WithAttributes(
			attribute.String("kind", kind),
			attribute.String("outcome", outcome),
		))
	}
}

// RecordUpstream records an AI provider call
func RecordUpstream(provider, status string, durationSec float64) {
	UpstreamDuration.WithLabelValues(provider, status).Observe(durationSec)
}

// RecordPublishError counts a failed activity publish
func RecordPublishError() {
	ActivityPublishErrors.Inc()
}

// RecordDashboardCache counts a dashboard cache hit or miss
func RecordDashboardCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	DashboardCacheTotal.WithLabelValues(result).Inc()
}
