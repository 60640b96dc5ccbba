// Package metrics records routing and gateway outcomes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder receives pipeline events. Implementations must be safe for
// concurrent use.
type Recorder interface {
	// Response records one handled message by route and escalation reason.
	Response(route, reason string, elapsed time.Duration)
	// GatewayCall records one remote call by strategy (or "list_models").
	GatewayCall(strategy, outcome string)
	// GatewayFailure records a terminal gateway failure by kind.
	GatewayFailure(kind string)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Response(string, string, time.Duration) {}
func (Nop) GatewayCall(string, string)             {}
func (Nop) GatewayFailure(string)                  {}

// Prometheus is a Recorder backed by Prometheus collectors.
type Prometheus struct {
	responses *prometheus.CounterVec
	handle    prometheus.Histogram
	calls     *prometheus.CounterVec
	failures  *prometheus.CounterVec
}

// NewPrometheus registers the supportdesk collectors on reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)
	return &Prometheus{
		responses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supportdesk",
			Subsystem: "orchestrator",
			Name:      "responses_total",
			Help:      "Handled messages by route and escalation reason",
		}, []string{"route", "reason"}),

		handle: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "supportdesk",
			Subsystem: "orchestrator",
			Name:      "handle_seconds",
			Help:      "Time to produce a response",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),

		calls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supportdesk",
			Subsystem: "gateway",
			Name:      "calls_total",
			Help:      "Remote completion calls by strategy and outcome",
		}, []string{"strategy", "outcome"}),

		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supportdesk",
			Subsystem: "gateway",
			Name:      "failures_total",
			Help:      "Terminal gateway failures by kind",
		}, []string{"kind"}),
	}
}

func (p *Prometheus) Response(route, reason string, elapsed time.Duration) {
	p.responses.WithLabelValues(route, reason).Inc()
	p.handle.Observe(elapsed.Seconds())
}

func (p *Prometheus) GatewayCall(strategy, outcome string) {
	p.calls.WithLabelValues(strategy, outcome).Inc()
}

func (p *Prometheus) GatewayFailure(kind string) {
	p.failures.WithLabelValues(kind).Inc()
}
