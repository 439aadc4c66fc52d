package service

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the registry.
// A nil *MetricsService is valid and drops every observation, so callers
// never need to guard.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	publishes       prometheus.Counter
	fetches         prometheus.Counter
	messagesSent    prometheus.Counter
	messagesDeleted prometheus.Counter
	lockToggles     prometheus.Counter
	purgedEntries   prometheus.Counter
}

// NewMetricsService registers the registry collectors.
func NewMetricsService() *MetricsService {
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

	publishes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "share_publishes_total",
		Help: "Total class snapshots published",
	})
	fetches := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "share_fetches_total",
		Help: "Total snapshot fetches by code",
	})
	messagesSent := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "share_messages_sent_total",
		Help: "Total chat messages appended",
	})
	messagesDeleted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "share_messages_deleted_total",
		Help: "Total chat messages deleted",
	})
	lockToggles := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "share_lock_toggles_total",
		Help: "Total chat lock changes",
	})
	purgedEntries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "share_entries_purged_total",
		Help: "Total expired share entries purged",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, publishes, fetches,
		messagesSent, messagesDeleted, lockToggles, purgedEntries, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		publishes:       publishes,
		fetches:         fetches,
		messagesSent:    messagesSent,
		messagesDeleted: messagesDeleted,
		lockToggles:     lockToggles,
		purgedEntries:   purgedEntries,
	}
}

// Handler exposes the /metrics endpoint.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return m.handler
}

// ObserveHTTPRequest records one request observation.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{
		"method": method,
		"path":   path,
		"status": httpStatusLabel(status),
	}
	m.requestDuration.With(labels).Observe(duration.Seconds())
	m.requestTotal.With(labels).Inc()
}

func (m *MetricsService) IncPublish() {
	if m != nil {
		m.publishes.Inc()
	}
}

func (m *MetricsService) IncFetch() {
	if m != nil {
		m.fetches.Inc()
	}
}

func (m *MetricsService) IncMessageSent() {
	if m != nil {
		m.messagesSent.Inc()
	}
}

func (m *MetricsService) IncMessageDeleted() {
	if m != nil {
		m.messagesDeleted.Inc()
	}
}

func (m *MetricsService) IncLockToggle() {
	if m != nil {
		m.lockToggles.Inc()
	}
}

func (m *MetricsService) AddPurged(n int) {
	if m != nil && n > 0 {
		m.purgedEntries.Add(float64(n))
	}
}

func httpStatusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
