package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Turn outcomes
const (
	OutcomeReply     = "reply"
	OutcomeFallback  = "fallback"
	OutcomeError     = "error"
	OutcomeCancelled = "cancelled"
)

// Metrics holds the conversation pipeline collectors
type Metrics struct {
	registry *prometheus.Registry

	Turns             *prometheus.CounterVec
	ReasoningLatency  prometheus.Histogram
	EmptyTranscripts  prometheus.Counter
	PersistFailures   prometheus.Counter
	SynthesisFailures prometheus.Counter
}

// New registers every collector on its own registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Turns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vivi_turns_total",
				Help: "Conversation turns by outcome",
			},
			[]string{"outcome"},
		),
		ReasoningLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "vivi_reasoning_latency_seconds",
				Help:    "Reasoning call latency in seconds",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
			},
		),
		EmptyTranscripts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "vivi_empty_transcripts_total",
				Help: "Captured windows that produced no transcript",
			},
		),
		PersistFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "vivi_memory_persist_failures_total",
				Help: "Failed memory log writes",
			},
		),
		SynthesisFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "vivi_synthesis_failures_total",
				Help: "Replies that could not be synthesized",
			},
		),
	}
}

// ObserveTurn counts one finished turn
func (m *Metrics) ObserveTurn(outcome string) {
	if m == nil {
		return
	}
	m.Turns.WithLabelValues(outcome).Inc()
}

// ObserveReasoning records one reasoning call latency
func (m *Metrics) ObserveReasoning(d time.Duration) {
	if m == nil {
		return
	}
	m.ReasoningLatency.Observe(d.Seconds())
}

func (m *Metrics) IncEmptyTranscript() {
	if m == nil {
		return
	}
	m.EmptyTranscripts.Inc()
}

func (m *Metrics) IncPersistFailure() {
	if m == nil {
		return
	}
	m.PersistFailures.Inc()
}

func (m *Metrics) IncSynthesisFailure() {
	if m == nil {
		return
	}
	m.SynthesisFailures.Inc()
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
