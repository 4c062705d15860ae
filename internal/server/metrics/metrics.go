// Package metrics exposes Prometheus counters for the unlock and upload
// flows plus HTTP request timings.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "linkgate"

// Upload outcomes used as the "status" label.
const (
	UploadOK     = "ok"
	UploadFailed = "failed"
)

// Metrics owns a private registry so several instances can coexist in tests.
// All methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	attemptsCreated    prometheus.Counter
	completionsRecorded prometheus.Counter
	unlocks            prometheus.Counter
	uploads            *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
}

// New initializes and registers all collectors.
func New() (*Metrics, error) {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.attemptsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unlock_attempts_created_total",
		Help:      "Unlock attempts created for visitors.",
	})
	m.completionsRecorded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unlock_completions_recorded_total",
		Help:      "Completion submissions applied to unlock attempts.",
	})
	m.unlocks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unlocks_total",
		Help:      "Attempts that transitioned to unlocked.",
	})
	m.uploads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "file_uploads_total",
		Help:      "File uploads partitioned by outcome.",
	}, []string{"status"})
	m.requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency partitioned by route and status code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "code"})

	for _, c := range []prometheus.Collector{
		m.attemptsCreated, m.completionsRecorded, m.unlocks, m.uploads, m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := m.registry.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) AttemptCreated() {
	if m == nil {
		return
	}
	m.attemptsCreated.Inc()
}

func (m *Metrics) CompletionRecorded() {
	if m == nil {
		return
	}
	m.completionsRecorded.Inc()
}

func (m *Metrics) Unlocked() {
	if m == nil {
		return
	}
	m.unlocks.Inc()
}

func (m *Metrics) Upload(status string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(code)).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
