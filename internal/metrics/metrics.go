// Package metrics exposes Prometheus collectors for intake turns, model
// calls, geocoding and live sessions. It implements the observer
// interfaces of the intake, llm and geo packages.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alexanderramin/intake/internal/geo"
	"github.com/alexanderramin/intake/internal/intake"
	"github.com/alexanderramin/intake/internal/llm"
)

const namespace = "intake"

// Metrics holds a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	turns        *prometheus.CounterVec
	turnDuration prometheus.Histogram
	turnErrors   prometheus.Counter
	llmCalls     *prometheus.CounterVec
	llmLatency   *prometheus.HistogramVec
	geocodes     *prometheus.CounterVec
	sessions     prometheus.Gauge
}

// New registers every collector, plus Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Conversational turns by reply kind.",
		}, []string{"kind"}),
		turnDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_duration_seconds",
			Help:      "Wall time of one turn, interpreter call included.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
		turnErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turn_errors_total",
			Help:      "Turns that hit an interpreter or persistence error.",
		}),
		llmCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_calls_total",
			Help:      "Model calls by task and outcome.",
		}, []string{"task", "status"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_latency_seconds",
			Help:      "Model call latency.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}, []string{"task"}),
		geocodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Location lookups by result.",
		}, []string{"result"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Sessions currently held in memory.",
		}),
	}
	m.registry.MustRegister(
		m.turns, m.turnDuration, m.turnErrors,
		m.llmCalls, m.llmLatency,
		m.geocodes, m.sessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveTurn implements intake.Observer.
func (m *Metrics) ObserveTurn(_ context.Context, e intake.TurnEvent) {
	m.turns.WithLabelValues(string(e.Kind)).Inc()
	m.turnDuration.Observe(e.Duration.Seconds())
	if e.Err != nil {
		m.turnErrors.Inc()
	}
}

// OnCallComplete implements llm.Observer.
func (m *Metrics) OnCallComplete(e llm.LLMCallEvent) {
	status := "ok"
	if !e.Success {
		status = e.ErrorCode
		if status == "" {
			status = "error"
		}
	}
	m.llmCalls.WithLabelValues(string(e.Task), status).Inc()
	m.llmLatency.WithLabelValues(string(e.Task)).Observe(float64(e.LatencyMs) / 1000)
}

// OnLookup implements geo.Observer.
func (m *Metrics) OnLookup(e geo.LookupEvent) {
	m.geocodes.WithLabelValues(e.Result).Inc()
}

// SetSessions records the number of live sessions.
func (m *Metrics) SetSessions(n int) { m.sessions.Set(float64(n)) }

var (
	_ intake.Observer = (*Metrics)(nil)
	_ llm.Observer    = (*Metrics)(nil)
	_ geo.Observer    = (*Metrics)(nil)
)
