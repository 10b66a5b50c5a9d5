package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides transport-level observability shared by all HTTP handlers.
type Metrics struct {
	// Request latencies by route, method and status class
	RequestDuration *prometheus.HistogramVec

	// Requests currently being served
	RequestsInFlight prometheus.Gauge

	// Authentication rejections by reason
	AuthFailures *prometheus.CounterVec
}

// New creates a Metrics instance with all transport metrics registered on the
// default registry. Call it once per process.
func New() *Metrics {
	return &Metrics{
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mirathi_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route, method and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "method", "status"}),

		RequestsInFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "mirathi_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		}),

		AuthFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mirathi_http_auth_failures_total",
			Help: "Total authentication failures by reason",
		}, []string{"reason"}),
	}
}

// ObserveRequest records a completed request.
func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	if m != nil {
		m.RequestDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(d.Seconds())
	}
}

// TrackInFlight marks a request as started and returns a func to mark it done.
func (m *Metrics) TrackInFlight() func() {
	if m == nil {
		return func() {}
	}
	m.RequestsInFlight.Inc()
	return func() { m.RequestsInFlight.Dec() }
}

// IncrementAuthFailure records a rejected authentication attempt.
func (m *Metrics) IncrementAuthFailure(reason string) {
	if m != nil {
		m.AuthFailures.WithLabelValues(reason).Inc()
	}
}
