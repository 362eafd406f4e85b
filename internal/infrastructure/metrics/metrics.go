// Package metrics provides Prometheus metrics for the aura-server service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Advisory call outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeFallback = "fallback"
)

var (
	// RequestsTotal counts HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aura",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration tracks HTTP request latency.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "aura",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// SessionStateTransitions tracks session state changes.
	SessionStateTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aura",
			Name:      "session_transitions_total",
			Help:      "Total number of session state transitions",
		},
		[]string{"from", "to"},
	)

	// AdvisoryCalls counts advisory calls by outcome.
	AdvisoryCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aura",
			Name:      "advisory_calls_total",
			Help:      "Total number of advisory calls",
		},
		[]string{"operation", "outcome"},
	)

	// AdvisoryDuration tracks advisory call latency.
	AdvisoryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "aura",
			Name:      "advisory_call_duration_seconds",
			Help:      "Duration of advisory calls",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"operation"},
	)

	// MessageAudits counts completed background audits.
	MessageAudits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aura",
			Name:      "message_audits_total",
			Help:      "Total number of background message audits",
		},
		[]string{"flagged"},
	)

	// CameraStreamsActive is the number of open camera streams. It should return to zero
	// whenever no emotion scan is on screen.
	CameraStreamsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "aura",
			Name:      "camera_streams_active",
			Help:      "Number of currently open camera streams",
		},
	)

	// StoreOperations counts persisted store operations.
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aura",
			Name:      "store_operations_total",
			Help:      "Total number of document store operations",
		},
		[]string{"backend", "operation", "status"},
	)

	// StoreCorruptDocuments counts documents that failed to decode.
	StoreCorruptDocuments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aura",
			Name:      "store_corrupt_documents_total",
			Help:      "Total number of persisted documents that could not be decoded",
		},
		[]string{"key"},
	)
)

// RecordRequest records one HTTP request.
func RecordRequest(method, endpoint string, status int, duration time.Duration) {
	RequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordStateTransition records a session state change.
func RecordStateTransition(fromState, toState string) {
	SessionStateTransitions.WithLabelValues(fromState, toState).Inc()
}

// RecordAdvisoryCall records one advisory call.
func RecordAdvisoryCall(operation, outcome string, duration time.Duration) {
	AdvisoryCalls.WithLabelValues(operation, outcome).Inc()
	AdvisoryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordMessageAudit records one completed audit.
func RecordMessageAudit(flagged bool) {
	MessageAudits.WithLabelValues(strconv.FormatBool(flagged)).Inc()
}

// RecordCameraOpened increments the open stream gauge.
func RecordCameraOpened() {
	CameraStreamsActive.Inc()
}

// RecordCameraClosed decrements the open stream gauge.
func RecordCameraClosed() {
	CameraStreamsActive.Dec()
}

// RecordStoreOperation records one backend operation.
func RecordStoreOperation(backend, operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	StoreOperations.WithLabelValues(backend, operation, status).Inc()
}

// RecordCorruptDocument records a document that was discarded on load.
func RecordCorruptDocument(key string) {
	StoreCorruptDocuments.WithLabelValues(key).Inc()
}
