package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lectureflow"

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics holds the pipeline's Prometheus collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	handler       http.Handler
	stageTotal    *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	backendTotal  *prometheus.CounterVec
}

// New registers the pipeline collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	stageTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stage_total",
		Help:      "Pipeline stages finished, by stage and result",
	}, []string{"stage", "result"})

	stageDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "stage_duration_seconds",
		Help:      "Duration of pipeline stages in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1200},
	}, []string{"stage"})

	backendTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "summary_backend_total",
		Help:      "Summarization backend calls, by backend and result",
	}, []string{"backend", "result"})

	registry.MustRegister(stageTotal, stageDuration, backendTotal)

	return &Metrics{
		registry:      registry,
		handler:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		stageTotal:    stageTotal,
		stageDuration: stageDuration,
		backendTotal:  backendTotal,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveStage records one finished pipeline stage.
func (m *Metrics) ObserveStage(stage string, ok bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.stageTotal.WithLabelValues(stage, result(ok)).Inc()
	m.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// ObserveBackend records one summarization backend call. Its signature matches
// summarizer.Observer.
func (m *Metrics) ObserveBackend(backend string, err error) {
	if m == nil {
		return
	}
	m.backendTotal.WithLabelValues(backend, result(err == nil)).Inc()
}

func result(ok bool) string {
	if ok {
		return ResultOK
	}
	return ResultError
}
