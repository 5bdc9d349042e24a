package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "deckhand"

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds the collectors recorded by the executor and the provider client.
type Metrics struct {
	registry         *prometheus.Registry
	actions          *prometheus.CounterVec
	actionDuration   *prometheus.HistogramVec
	providerRequests *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors, plus the Go and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "actions_total",
				Help:      "Number of executed actions by name and outcome.",
			},
			[]string{"action", "outcome"},
		),
		actionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "action_duration_seconds",
				Help:      "Duration of executed actions.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
			},
			[]string{"action"},
		),
		providerRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_requests_total",
				Help:      "Number of chat-completion requests by outcome.",
			},
			[]string{"outcome"},
		),
	}
	m.registry.MustRegister(
		m.actions,
		m.actionDuration,
		m.providerRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveAction records one executed action.
func (m *Metrics) ObserveAction(action string, failed bool, elapsed time.Duration) {
	m.actions.WithLabelValues(action, outcome(failed)).Inc()
	m.actionDuration.WithLabelValues(action).Observe(elapsed.Seconds())
}

// ObserveProviderRequest records one provider round-trip.
func (m *Metrics) ObserveProviderRequest(failed bool) {
	m.providerRequests.WithLabelValues(outcome(failed)).Inc()
}

func outcome(failed bool) string {
	if failed {
		return OutcomeError
	}
	return OutcomeOK
}
