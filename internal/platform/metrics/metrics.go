package metrics

import (
	"time"

	dErrors "civiclink/pkg/domain-errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
// Every method is safe to call on a nil receiver so tests can omit metrics.
type Metrics struct {
	// Backend calls by backend ("directory", "contract", "wallet"), operation and outcome code
	BackendCalls *prometheus.CounterVec

	// Backend call latency by backend and operation
	BackendLatency *prometheus.HistogramVec

	// Render operations applied to documents by op kind
	RenderOps *prometheus.CounterVec

	// Page actions ignored because the same action was still in flight
	GuardRejections *prometheus.CounterVec

	// HTTP request latency by route pattern, method and status
	HTTPLatency *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		BackendCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "civiclink_backend_calls_total",
			Help: "Total backend calls by backend, operation and outcome",
		}, []string{"backend", "operation", "outcome"}),

		BackendLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "civiclink_backend_call_duration_seconds",
			Help:    "Duration of backend calls by backend and operation",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"backend", "operation"}),

		RenderOps: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "civiclink_render_ops_total",
			Help: "Total document operations applied by kind",
		}, []string{"kind"}),

		GuardRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "civiclink_action_rejections_total",
			Help: "Page actions ignored while the same action was in flight",
		}, []string{"action"}),

		HTTPLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "civiclink_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route, method and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
}

// ObserveBackendCall records one backend call. outcome is "ok" or an error code.
func (m *Metrics) ObserveBackendCall(backend, operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.BackendCalls.WithLabelValues(backend, operation, outcome).Inc()
	m.BackendLatency.WithLabelValues(backend, operation).Observe(d.Seconds())
}

// Outcome labels a call result: "ok" or the error's domain code.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return string(dErrors.CodeOf(err))
}

// IncrementRenderOp records an applied document operation.
func (m *Metrics) IncrementRenderOp(kind string) {
	if m != nil {
		m.RenderOps.WithLabelValues(kind).Inc()
	}
}

// IncrementGuardRejection records an ignored re-entrant action.
func (m *Metrics) IncrementGuardRejection(action string) {
	if m != nil {
		m.GuardRejections.WithLabelValues(action).Inc()
	}
}

// ObserveHTTPLatency records the duration of a served request.
func (m *Metrics) ObserveHTTPLatency(route, method, status string, d time.Duration) {
	if m != nil {
		m.HTTPLatency.WithLabelValues(route, method, status).Observe(d.Seconds())
	}
}
