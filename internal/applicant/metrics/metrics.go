package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the applicant workflow.
type Metrics struct {
	Transitions     *prometheus.CounterVec
	GuardViolations prometheus.Counter
}

// New creates and registers the workflow metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hireflow_applicant_transitions_total",
			Help: "Accepted applicant status transitions by target status",
		}, []string{"status"}),
		GuardViolations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hireflow_applicant_guard_violations_total",
			Help: "Status changes rejected by a business-rule guard",
		}),
	}
}

func (m *Metrics) IncrementTransition(status string) {
	if m != nil {
		m.Transitions.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) IncrementGuardViolation() {
	if m != nil {
		m.GuardViolations.Inc()
	}
}
