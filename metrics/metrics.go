package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"attendance-tracker/models"
)

// Service encapsulates Prometheus instrumentation for the HTTP surface and the store.
type Service struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	marksTotal      *prometheus.CounterVec
	rejectedTotal   *prometheus.CounterVec
	enrolled        prometheus.Gauge
}

// New registers the collectors on a private registry.
func New() *Service {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	marksTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_marks_total",
		Help: "Attendance marks applied, by status",
	}, []string{"status"})

	rejectedTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_rejected_operations_total",
		Help: "Store operations skipped because of a warning",
	}, []string{"op"})

	enrolled := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "attendance_enrolled_students",
		Help: "Students currently enrolled in the class",
	})

	registry.MustRegister(requestDuration, requestTotal, marksTotal, rejectedTotal, enrolled)

	return &Service{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		marksTotal:      marksTotal,
		rejectedTotal:   rejectedTotal,
		enrolled:        enrolled,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *Service) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry returns the underlying registry.
func (m *Service) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *Service) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

func (m *Service) ObserveMark(status models.Status) {
	if m == nil {
		return
	}
	m.marksTotal.WithLabelValues(string(status)).Inc()
}

func (m *Service) ObserveRejected(op string) {
	if m == nil {
		return
	}
	m.rejectedTotal.WithLabelValues(op).Inc()
}

func (m *Service) SetEnrolled(n int) {
	if m == nil {
		return
	}
	m.enrolled.Set(float64(n))
}
