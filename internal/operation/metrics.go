package operation

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector records operation executions as Prometheus metrics.
type MetricsCollector struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
}

// NewMetricsCollector creates a collector registered with reg.
// A nil reg leaves the metrics unregistered.
func NewMetricsCollector(reg prometheus.Registerer) *MetricsCollector {
	factory := promauto.With(reg)
	return &MetricsCollector{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ikpack_operation_requests_total",
				Help: "Total number of operation executions",
			},
			[]string{"provider", "operation", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ikpack_operation_duration_seconds",
				Help:    "Duration of operation executions",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider", "operation"},
		),
		errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ikpack_operation_errors_total",
				Help: "Total operation errors by type",
			},
			[]string{"provider", "operation", "error_type"},
		),
	}
}

// RecordRequest records one operation execution.
func (m *MetricsCollector) RecordRequest(provider, operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
		m.errors.WithLabelValues(provider, operation, errorTypeLabel(err)).Inc()
	}
	m.requests.WithLabelValues(provider, operation, status).Inc()
	m.duration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// errorTypeLabel maps an error to a bounded label value.
func errorTypeLabel(err error) string {
	var opErr *Error
	if errors.As(err, &opErr) {
		return string(opErr.Type)
	}
	return "transport_error"
}
