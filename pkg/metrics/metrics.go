package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the contract lifecycle.
type Metrics struct {
	// Successful operations by action and resulting status
	Transitions *prometheus.CounterVec

	// Rejected operations by action and reason
	Rejections *prometheus.CounterVec

	// Store latency by operation
	StoreLatency *prometheus.HistogramVec
}

// New registers the contract metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "contracts_transitions_total",
			Help: "Contract operations applied, by action and resulting status",
		}, []string{"action", "status"}), // action: "save", "sign", "revise"

		Rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "contracts_rejections_total",
			Help: "Contract operations rejected by a lifecycle guard, by action and reason",
		}, []string{"action", "reason"}),

		StoreLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "contracts_store_duration_seconds",
			Help:    "Duration of contract store operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"op"}),
	}
}

// IncrementTransition records an applied operation.
func (m *Metrics) IncrementTransition(action, status string) {
	if m != nil {
		m.Transitions.WithLabelValues(action, status).Inc()
	}
}

// IncrementRejection records an operation refused by a guard.
func (m *Metrics) IncrementRejection(action, reason string) {
	if m != nil {
		m.Rejections.WithLabelValues(action, reason).Inc()
	}
}

// ObserveStore records how long a store call took.
func (m *Metrics) ObserveStore(op string, d time.Duration) {
	if m != nil {
		m.StoreLatency.WithLabelValues(op).Observe(d.Seconds())
	}
}
