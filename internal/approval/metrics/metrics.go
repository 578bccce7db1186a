package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the remote approval protocol.
type Metrics struct {
	TokensIssued     prometheus.Counter
	TokensConsumed   *prometheus.CounterVec
	VerifyFailures   prometheus.Counter
	GrantsSweptStale prometheus.Counter
}

// New creates and registers the approval metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		TokensIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hireflow_approval_tokens_issued_total",
			Help: "Remote approval tokens minted",
		}),
		TokensConsumed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hireflow_approval_tokens_consumed_total",
			Help: "Remote approval tokens consumed by decision",
		}, []string{"decision"}),
		VerifyFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hireflow_approval_verify_failures_total",
			Help: "Failed token verifications (missing, mismatched, or expired)",
		}),
		GrantsSweptStale: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hireflow_approval_grants_swept_total",
			Help: "Expired approval grants revoked by the sweeper",
		}),
	}
}

func (m *Metrics) IncrementIssued() {
	if m != nil {
		m.TokensIssued.Inc()
	}
}

func (m *Metrics) IncrementConsumed(decision string) {
	if m != nil {
		m.TokensConsumed.WithLabelValues(decision).Inc()
	}
}

func (m *Metrics) IncrementVerifyFailure() {
	if m != nil {
		m.VerifyFailures.Inc()
	}
}

func (m *Metrics) IncrementSwept() {
	if m != nil {
		m.GrantsSweptStale.Inc()
	}
}
