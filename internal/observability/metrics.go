// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Serving metrics
	PredictionsServed  *prometheus.CounterVec
	PredictionErrors   *prometheus.CounterVec
	PredictionLatency  *prometheus.HistogramVec
	FraudProbability   *prometheus.HistogramVec
	ArtifactLoadErrors *prometheus.CounterVec

	// Training metrics
	TrainingRunsTotal *prometheus.CounterVec
	TrainingDuration  *prometheus.HistogramVec
	ClaimsGenerated   prometheus.Counter
	ReportsGenerated  prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulTraining prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "fraudlab"
	}

	return &Metrics{
		// Serving metrics
		PredictionsServed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "serving",
			Name:      "predictions_total",
			Help:      "Total number of predictions served by model type and outcome",
		}, []string{"model_type", "outcome"}),
		PredictionErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "serving",
			Name:      "prediction_errors_total",
			Help:      "Total number of failed prediction requests by reason",
		}, []string{"reason"}),
		PredictionLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "serving",
			Name:      "prediction_latency_seconds",
			Help:      "End-to-end prediction request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"model_type"}),
		FraudProbability: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "serving",
			Name:      "fraud_probability",
			Help:      "Distribution of served fraud probabilities",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}, []string{"model_type"}),
		ArtifactLoadErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "serving",
			Name:      "artifact_load_errors_total",
			Help:      "Total number of artifact load failures by model type",
		}, []string{"model_type"}),

		// Training metrics
		TrainingRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "training",
			Name:      "runs_total",
			Help:      "Total number of training runs by model type and status",
		}, []string{"model_type", "status"}),
		TrainingDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "training",
			Name:      "duration_seconds",
			Help:      "Training run duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"model_type"}),
		ClaimsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "training",
			Name:      "claims_generated_total",
			Help:      "Total number of synthetic claims generated",
		}),
		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "training",
			Name:      "reports_generated_total",
			Help:      "Total number of training reports generated",
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulTraining: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_training_timestamp",
			Help:      "Unix timestamp of last successful training run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordPrediction records one served prediction.
func RecordPrediction(modelType string, prediction int, probability, latencySeconds float64) {
	outcome := "legitimate"
	if prediction == 1 {
		outcome = "fraud"
	}
	DefaultMetrics.PredictionsServed.WithLabelValues(modelType, outcome).Inc()
	DefaultMetrics.PredictionLatency.WithLabelValues(modelType).Observe(latencySeconds)
	DefaultMetrics.FraudProbability.WithLabelValues(modelType).Observe(probability)
}

// RecordPredictionError records a failed prediction request.
func RecordPredictionError(reason string) {
	DefaultMetrics.PredictionErrors.WithLabelValues(reason).Inc()
}

// RecordArtifactLoadError records an artifact load failure.
func RecordArtifactLoadError(modelType string) {
	DefaultMetrics.ArtifactLoadErrors.WithLabelValues(modelType).Inc()
}

// RecordTrainingRun records a training run.
func RecordTrainingRun(modelType, status string, durationSeconds float64) {
	DefaultMetrics.TrainingRunsTotal.WithLabelValues(modelType, status).Inc()
	DefaultMetrics.TrainingDuration.WithLabelValues(modelType).Observe(durationSeconds)
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
