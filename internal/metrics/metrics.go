// Package metrics records analysis telemetry: flag frequencies across
// clauses, contract risk levels and analysis latency.
package metrics

import (
	"fmt"
	"time"

	"github.com/ppiankov/clauseguard/internal/model"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "clauseguard"

var durationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// Recorder receives analysis events
type Recorder interface {
	// RecordAnalysis counts one finished analysis and its per-clause flags
	RecordAnalysis(a *model.Analysis, elapsed time.Duration)

	// RecordLLMFallback counts a generation call that used canned text
	RecordLLMFallback(op string)
}

// Prometheus is a Recorder backed by Prometheus collectors
type Prometheus struct {
	registry *prometheus.Registry

	analyses     *prometheus.CounterVec
	clauses      prometheus.Counter
	flags        *prometheus.CounterVec
	ambiguous    prometheus.Counter
	duration     *prometheus.HistogramVec
	llmFallbacks *prometheus.CounterVec
}

// NewPrometheus registers the clauseguard collectors with a fresh registry
func NewPrometheus() (*Prometheus, error) {
	return NewPrometheusWithRegistry(prometheus.NewRegistry())
}

// NewPrometheusWithRegistry registers the collectors with registry
func NewPrometheusWithRegistry(registry *prometheus.Registry) (*Prometheus, error) {
	m := &Prometheus{registry: registry}

	m.analyses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analyses_total",
		Help:      "Contracts analyzed, by contract type and overall risk level.",
	}, []string{"contract_type", "level"})

	m.clauses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "clauses_analyzed_total",
		Help:      "Clauses scored.",
	})

	m.flags = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "risk_flags_total",
		Help:      "Clauses raising each risk flag.",
	}, []string{"flag"})

	m.ambiguous = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ambiguous_clauses_total",
		Help:      "Clauses containing vague drafting language.",
	})

	m.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "analysis_duration_seconds",
		Help:      "Time to analyze one contract.",
		Buckets:   durationBuckets,
	}, []string{"contract_type"})

	m.llmFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "llm_fallbacks_total",
		Help:      "Generation calls answered with canned text.",
	}, []string{"op"})

	for _, c := range []prometheus.Collector{m.analyses, m.clauses, m.flags, m.ambiguous, m.duration, m.llmFallbacks} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return m, nil
}

// Registry returns the registry holding the collectors
func (m *Prometheus) Registry() *prometheus.Registry {
	return m.registry
}

// RecordAnalysis implements Recorder
func (m *Prometheus) RecordAnalysis(a *model.Analysis, elapsed time.Duration) {
	if a == nil {
		return
	}

	m.analyses.WithLabelValues(a.ContractType, string(a.Risk.Level)).Inc()
	m.clauses.Add(float64(len(a.Clauses)))
	for flag, n := range a.Risk.FlagCounts {
		if n > 0 {
			m.flags.WithLabelValues(flag).Add(float64(n))
		}
	}
	for _, amb := range a.Ambiguity {
		if amb.Ambiguous {
			m.ambiguous.Inc()
		}
	}
	m.duration.WithLabelValues(a.ContractType).Observe(elapsed.Seconds())
}

// RecordLLMFallback implements Recorder
func (m *Prometheus) RecordLLMFallback(op string) {
	m.llmFallbacks.WithLabelValues(op).Inc()
}

// WriteTextfile writes the current values in the node_exporter textfile format
func (m *Prometheus) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

// Nop discards everything
type Nop struct{}

func (Nop) RecordAnalysis(*model.Analysis, time.Duration) {}
func (Nop) RecordLLMFallback(string)                      {}

// OrNop returns r, or Nop when r is nil
func OrNop(r Recorder) Recorder {
	if r == nil {
		return Nop{}
	}
	return r
}
