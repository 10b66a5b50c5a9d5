package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the estate module.
// Tracks lifecycle counts, ledger activity, and critical path durations.
type Metrics struct {
	EstatesOpened            prometheus.Counter
	DebtPayments             prometheus.Counter
	StatutoryOrderRejections prometheus.Counter
	InsolvencyTransitions    prometheus.Counter
	DistributionsCalculated  prometheus.Counter
	ConcurrencyConflicts     prometheus.Counter
	MutationDuration         prometheus.Histogram
	DistributionDuration     prometheus.Histogram
}

// New creates a new Metrics instance with all estate module metrics registered.
func New() *Metrics {
	return &Metrics{
		EstatesOpened: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mirathi_estates_opened_total",
			Help: "Total number of estates opened for administration",
		}),
		DebtPayments: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mirathi_debt_payments_total",
			Help: "Total number of creditor payments made from estates",
		}),
		StatutoryOrderRejections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mirathi_statutory_order_rejections_total",
			Help: "Payments rejected because a senior creditor was still unpaid",
		}),
		InsolvencyTransitions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mirathi_insolvency_transitions_total",
			Help: "Times an estate crossed from solvent to insolvent",
		}),
		DistributionsCalculated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mirathi_distributions_calculated_total",
			Help: "Total number of distribution orders computed",
		}),
		ConcurrencyConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mirathi_concurrency_conflicts_total",
			Help: "Optimistic concurrency conflicts surfaced to callers",
		}),
		MutationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "mirathi_estate_mutation_duration_seconds",
			Help:    "Duration of estate mutations through the store (read-modify-write path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		DistributionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "mirathi_distribution_duration_seconds",
			Help:    "Duration of distribution calculations including family lookup",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementEstatesOpened records a successful estate opening.
func (m *Metrics) IncrementEstatesOpened() {
	m.EstatesOpened.Inc()
}

// IncrementDebtPayments records a successful creditor payment.
func (m *Metrics) IncrementDebtPayments() {
	m.DebtPayments.Inc()
}

// IncrementStatutoryOrderRejections records a payment blocked by the order
// of priority.
func (m *Metrics) IncrementStatutoryOrderRejections() {
	m.StatutoryOrderRejections.Inc()
}

// IncrementInsolvencyTransitions records a solvent-to-insolvent crossing.
func (m *Metrics) IncrementInsolvencyTransitions() {
	m.InsolvencyTransitions.Inc()
}

// IncrementDistributionsCalculated records a completed distribution order.
func (m *Metrics) IncrementDistributionsCalculated() {
	m.DistributionsCalculated.Inc()
}

// IncrementConcurrencyConflicts records a version clash at save.
func (m *Metrics) IncrementConcurrencyConflicts() {
	m.ConcurrencyConflicts.Inc()
}

// ObserveMutation records the duration of one estate mutation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveMutation(start time.Time) {
	m.MutationDuration.Observe(time.Since(start).Seconds())
}

// ObserveDistribution records the duration of one distribution calculation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveDistribution(start time.Time) {
	m.DistributionDuration.Observe(time.Since(start).Seconds())
}
