// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the recommendation service:
// - Interaction store query performance
// - API endpoint latency and throughput
// - Circuit breaker state
// - Recommendation tiers and training cycles
// - Snapshot fallbacks

var (
	// Store Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_query_duration_seconds",
			Help:    "Duration of interaction store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"driver", "operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_query_errors_total",
			Help: "Total number of interaction store query errors",
		},
		[]string{"driver", "operation", "error_type"},
	)

	DBRowsLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "store_rows_loaded",
			Help: "Number of interaction rows returned by the last successful load",
		},
		[]string{"driver"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total recommendation requests by decided and serving tier",
		},
		[]string{"tier", "served_by"},
	)

	RecommendErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_errors_total",
			Help: "Total failed recommendation requests",
		},
		[]string{"reason"},
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "Time to produce a recommendation list",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		},
		[]string{"served_by"},
	)

	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_training_runs_total",
			Help: "Total training cycles by result",
		},
		[]string{"result"},
	)

	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_training_duration_seconds",
			Help:    "Duration of training cycles",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300, 900},
		},
	)

	TrainingLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_training_last_success_timestamp",
			Help: "Unix timestamp of the last successful training cycle",
		},
	)

	ModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_version",
			Help: "Version of the model set currently serving",
		},
	)

	ModelSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recommend_model_size",
			Help: "Size of the training table by dimension",
		},
		[]string{"dimension"}, // "interactions", "users", "items"
	)

	ValidationRMSE = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_latent_validation_rmse",
			Help: "Held-out RMSE of the latent factor model",
		},
	)

	// Snapshot Metrics
	SnapshotWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_writes_total",
			Help: "Total interaction snapshot writes by result",
		},
		[]string{"result"},
	)

	SnapshotFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "snapshot_fallbacks_total",
			Help: "Total training loads served from the snapshot instead of the store",
		},
	)

	// Application Info
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordDBQuery records an interaction store query metric
func RecordDBQuery(driver, operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(driver, operation).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(driver, operation, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records a served recommendation request.
func RecordRecommendation(tier, servedBy string, duration time.Duration) {
	RecommendRequests.WithLabelValues(tier, servedBy).Inc()
	RecommendDuration.WithLabelValues(servedBy).Observe(duration.Seconds())
}

// RecordRecommendationError records a failed recommendation request.
func RecordRecommendationError(reason string) {
	RecommendErrors.WithLabelValues(reason).Inc()
}

// RecordTraining records the outcome of a training cycle.
// result is "success" or "failure".
func RecordTraining(result string, duration time.Duration) {
	TrainingRuns.WithLabelValues(result).Inc()
	TrainingDuration.Observe(duration.Seconds())
	if result == "success" {
		TrainingLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// SetModelStats publishes the size and quality of the serving model set.
func SetModelStats(version, interactions, users, items int, rmse float64) {
	ModelVersion.Set(float64(version))
	ModelSize.WithLabelValues("interactions").Set(float64(interactions))
	ModelSize.WithLabelValues("users").Set(float64(users))
	ModelSize.WithLabelValues("items").Set(float64(items))
	ValidationRMSE.Set(rmse)
}

// RecordSnapshotWrite records an interaction snapshot write.
func RecordSnapshotWrite(err error) {
	SnapshotWrites.WithLabelValues(resultLabel(err)).Inc()
}

// RecordSnapshotFallback records a training load served from the snapshot.
func RecordSnapshotFallback() {
	SnapshotFallbacks.Inc()
}

// SetAppInfo publishes the build version.
func SetAppInfo(version, goVersion string) {
	AppInfo.WithLabelValues(version, goVersion).Set(1)
}

// StatusLabel converts an HTTP status code to a label value.
func StatusLabel(code int) string {
	return strconv.Itoa(code)
}

func resultLabel(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
