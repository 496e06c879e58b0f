// Package metrics provides the centralized Prometheus registry for the
// prediction engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "longball",
		Name:      "upstream_requests_total",
		Help:      "Total upstream API requests by source and result",
	}, []string{"source", "result"})
	LineupFallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "longball",
		Name:      "lineup_fallbacks_total",
		Help:      "Total lineup source failures that triggered a fallback",
	}, []string{"source"})
	GamesDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "longball",
		Name:      "games_dropped_total",
		Help:      "Total games dropped from runs after source exhaustion",
	})
	FactorDefaultsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "longball",
		Name:      "factor_defaults_total",
		Help:      "Total factor values that fell back to neutral defaults",
	}, []string{"factor"})
	PredictionsCommittedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "longball",
		Name:      "predictions_committed_total",
		Help:      "Total predictions committed by run tag",
	}, []string{"run_tag"})
	RunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "longball",
		Name:      "runs_total",
		Help:      "Total prediction runs by run tag and result",
	}, []string{"run_tag", "result"})
	VerificationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "longball",
		Name:      "verifications_total",
		Help:      "Total verification invocations",
	})
)

// Gauge metrics
var (
	SlateSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "longball",
		Name:      "slate_size",
		Help:      "Batters scored in the most recent run",
	})
	DegradedRun = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "longball",
		Name:      "degraded_run",
		Help:      "Whether the most recent run used any estimated defaults",
	})
	AccuracyOverall = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "longball",
		Name:      "accuracy_overall",
		Help:      "Overall accuracy from the most recent verification",
	})
	AccuracyByCategory = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "longball",
		Name:      "accuracy_by_category",
		Help:      "Per-tier accuracy from the most recent verification",
	}, []string{"category"})
)

// Histogram metrics
var (
	RunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "longball",
		Name:      "run_duration_seconds",
		Help:      "Duration of full prediction runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
	})
	UpstreamRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "longball",
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of upstream API requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(UpstreamRequestsTotal)
		registry.MustRegister(LineupFallbacksTotal)
		registry.MustRegister(GamesDroppedTotal)
		registry.MustRegister(FactorDefaultsTotal)
		registry.MustRegister(PredictionsCommittedTotal)
		registry.MustRegister(RunsTotal)
		registry.MustRegister(VerificationsTotal)

		// Register gauge metrics
		registry.MustRegister(SlateSize)
		registry.MustRegister(DegradedRun)
		registry.MustRegister(AccuracyOverall)
		registry.MustRegister(AccuracyByCategory)

		// Register histogram metrics
		registry.MustRegister(RunDuration)
		registry.MustRegister(UpstreamRequestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordUpstreamRequest records one upstream API call.
func RecordUpstreamRequest(source, result string, durationSeconds float64) {
	UpstreamRequestsTotal.WithLabelValues(source, result).Inc()
	UpstreamRequestDuration.WithLabelValues(source).Observe(durationSeconds)
}

// RecordLineupFallback records a failed lineup source attempt.
func RecordLineupFallback(source string) {
	LineupFallbacksTotal.WithLabelValues(source).Inc()
}

// RecordGameDropped records a game dropped after source exhaustion.
func RecordGameDropped() {
	GamesDroppedTotal.Inc()
}

// RecordFactorDefault records a factor falling back to its default.
func RecordFactorDefault(factor string) {
	FactorDefaultsTotal.WithLabelValues(factor).Inc()
}

// RecordRunCommitted records a committed run.
func RecordRunCommitted(runTag string, predictions int, durationSeconds float64, degraded bool) {
	RunsTotal.WithLabelValues(runTag, "success").Inc()
	PredictionsCommittedTotal.WithLabelValues(runTag).Add(float64(predictions))
	SlateSize.Set(float64(predictions))
	RunDuration.Observe(durationSeconds)
	if degraded {
		DegradedRun.Set(1)
	} else {
		DegradedRun.Set(0)
	}
}

// RecordRunFailed records a failed run.
func RecordRunFailed(runTag string) {
	RunsTotal.WithLabelValues(runTag, "failure").Inc()
}

// UpdateAccuracy updates accuracy gauges after a verification.
func UpdateAccuracy(overall float64, byCategory map[string]float64) {
	VerificationsTotal.Inc()
	AccuracyOverall.Set(overall)
	for category, accuracy := range byCategory {
		AccuracyByCategory.WithLabelValues(category).Set(accuracy)
	}
}
