// ShopMind - E-Commerce Product Recommendation Platform
// Copyright 2026 ShopMind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmind/shopmind

// Package metrics provides Prometheus instrumentation for the recommendation
// service: DuckDB query performance, API endpoint latency and throughput,
// model training runs, and query-time engine activity. All collectors are
// registered with the default registry via promauto and exposed on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	DBConnectionPoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "duckdb_connection_pool_size",
			Help: "Current number of database connections in use",
		},
	)

	// API endpoint metrics
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
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
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

	// Model training metrics
	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "model_training_duration_seconds",
			Help:    "Duration of model training runs in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_training_runs_total",
			Help: "Total number of model training runs",
		},
		[]string{"result"}, // "success", "failure"
	)

	TrainingLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_training_last_success_timestamp",
			Help: "Unix timestamp of last successful training run",
		},
	)

	ModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_version",
			Help: "Version counter of the fitted model (increments per successful training run)",
		},
	)

	ModelUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_matrix_users",
			Help: "Number of users retained in the fitted interaction matrix",
		},
	)

	ModelProducts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_matrix_products",
			Help: "Number of products retained in the fitted interaction matrix",
		},
	)

	ModelRatings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_matrix_ratings",
			Help: "Number of ratings in the fitted interaction matrix",
		},
	)

	ModelDensity = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_matrix_density",
			Help: "Density of the fitted interaction matrix (0 to 1)",
		},
	)

	// Engine query metrics
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_predictions_total",
			Help: "Total number of rating predictions served",
		},
		[]string{"mode"},
	)

	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_recommendations_total",
			Help: "Total number of recommendation lists served",
		},
		[]string{"mode"},
	)

	SimilarityQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_similarity_queries_total",
			Help: "Total number of similar-user and similar-product queries served",
		},
		[]string{"kind"}, // "user", "product"
	)

	PopularityFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_popularity_fallbacks_total",
			Help: "Total number of recommendation requests served from the popularity fallback",
		},
	)

	RatingsIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ratings_ingested_total",
			Help: "Total number of ratings accepted through the API",
		},
	)

	// System metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
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

// RecordTraining records the outcome of a model training run.
func RecordTraining(duration time.Duration, err error) {
	TrainingDuration.Observe(duration.Seconds())
	if err != nil {
		TrainingRuns.WithLabelValues("failure").Inc()
		return
	}
	TrainingRuns.WithLabelValues("success").Inc()
	TrainingLastSuccess.Set(float64(time.Now().Unix()))
}

// UpdateModelGauges publishes the shape of the currently fitted model.
func UpdateModelGauges(version, users, products, ratings int, density float64) {
	ModelVersion.Set(float64(version))
	ModelUsers.Set(float64(users))
	ModelProducts.Set(float64(products))
	ModelRatings.Set(float64(ratings))
	ModelDensity.Set(density)
}

// RecordPrediction records a served rating prediction.
func RecordPrediction(mode string) {
	PredictionsTotal.WithLabelValues(mode).Inc()
}

// RecordRecommendation records a served recommendation list.
func RecordRecommendation(mode string) {
	RecommendationsTotal.WithLabelValues(mode).Inc()
}

// RecordSimilarityQuery records a served similarity query.
// kind is "user" or "product".
func RecordSimilarityQuery(kind string) {
	SimilarityQueriesTotal.WithLabelValues(kind).Inc()
}
