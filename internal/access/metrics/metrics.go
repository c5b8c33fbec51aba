package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	GateDecisions  *prometheus.CounterVec
	LoginSuccesses prometheus.Counter
	LoginFailures  prometheus.Counter
	SessionsSwept  prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		GateDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "docport_gate_decisions_total",
			Help: "Access gate decisions by kind",
		}, []string{"decision"}),
		LoginSuccesses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "docport_subdomain_logins_total",
			Help: "Successful subdomain password logins",
		}),
		LoginFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "docport_subdomain_login_failures_total",
			Help: "Failed subdomain password logins",
		}),
		SessionsSwept: promauto.NewCounter(prometheus.CounterOpts{
			Name: "docport_sessions_swept_total",
			Help: "Expired sessions removed by the background sweeper",
		}),
	}
}

// ObserveDecision records one gate verdict.
func (m *Metrics) ObserveDecision(decision string) {
	m.GateDecisions.WithLabelValues(decision).Inc()
}
