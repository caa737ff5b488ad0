package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Admission metrics
	AdmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservation_admissions_total",
			Help: "Total number of reservation admission attempts by outcome",
		},
		[]string{"operation", "outcome"}, // outcome: admitted, invalid, unresolved, conflict, error
	)

	AdmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reservation_admission_duration_seconds",
			Help:    "Duration of reservation admissions, lock wait included",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	LockWaitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chalet_lock_wait_seconds",
			Help:    "Time spent waiting for exclusive admission rights on a chalet",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
	)

	// Public intake metrics
	IntakeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "public_intake_requests_total",
			Help: "Total number of public website reservation requests",
		},
		[]string{"channel", "status"}, // channel: sync, queue; status: admitted, rejected, failed
	)

	IntakeQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "public_intake_queue_depth",
			Help: "Jobs buffered between the intake consumer and its workers",
		},
	)

	// RabbitMQ connection metrics
	RabbitMQConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rabbitmq_connections_active",
			Help: "Number of active RabbitMQ connections",
		},
		[]string{"status"}, // status: connected, disconnected
	)

	// Database metrics
	DatabaseConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "database_connections_active",
			Help: "Number of database connections by state",
		},
		[]string{"status"}, // status: acquired, idle, total
	)

	// API metrics
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
			Help:    "Duration of API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// IncrementAdmissions counts one admission attempt
func IncrementAdmissions(operation, outcome string) {
	AdmissionsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordAdmissionDuration records how long an admission took end to end
func RecordAdmissionDuration(operation string, duration float64) {
	AdmissionDuration.WithLabelValues(operation).Observe(duration)
}

// RecordLockWait records the time spent waiting for a chalet lock
func RecordLockWait(duration float64) {
	LockWaitDuration.Observe(duration)
}

// IncrementIntakeRequests counts a processed public request
func IncrementIntakeRequests(channel, status string) {
	IntakeRequestsTotal.WithLabelValues(channel, status).Inc()
}

func UpdateIntakeQueueDepth(depth float64) {
	IntakeQueueDepth.Set(depth)
}

// UpdateRabbitMQConnections updates RabbitMQ connection status
func UpdateRabbitMQConnections(status string, count float64) {
	RabbitMQConnections.WithLabelValues(status).Set(count)
}

// UpdateDatabaseConnections updates pool connection gauges
func UpdateDatabaseConnections(acquired, idle, total float64) {
	DatabaseConnections.WithLabelValues("acquired").Set(acquired)
	DatabaseConnections.WithLabelValues("idle").Set(idle)
	DatabaseConnections.WithLabelValues("total").Set(total)
}

// IncrementAPIRequests increments API request counter
func IncrementAPIRequests(method, endpoint, statusCode string) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
}

// RecordAPIRequestDuration records API request duration
func RecordAPIRequestDuration(method, endpoint string, duration float64) {
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}
