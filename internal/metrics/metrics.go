package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "checkout"

type Metrics struct {
	ReconciliationOutcomes *prometheus.CounterVec
	GatewayRequestDuration *prometheus.HistogramVec
	EnrollmentsRecovered   prometheus.Counter
}

// New builds the collectors and registers them on reg. Pass a fresh
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ReconciliationOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconciliation_outcomes_total",
			Help:      "Terminal outcomes of payment reconciliation by kind and reject reason.",
		}, []string{"outcome", "reason"}),
		GatewayRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_request_duration_seconds",
			Help:      "Latency of payment gateway calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "result"}),
		EnrollmentsRecovered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrollments_recovered_total",
			Help:      "Enrollments granted by the recovery sweeper for payments recorded without access.",
		}),
	}

	reg.MustRegister(
		m.ReconciliationOutcomes,
		m.GatewayRequestDuration,
		m.EnrollmentsRecovered,
	)

	return m
}
