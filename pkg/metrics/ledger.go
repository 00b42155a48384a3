package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics records outcomes of stock ledger mutations.
type LedgerMetrics struct {
	applied   *prometheus.CounterVec
	undone    prometheus.Counter
	overrides prometheus.Counter
	conflicts prometheus.Counter
	duration  *prometheus.HistogramVec
}

// NewLedgerMetrics registers the ledger metrics on the provided registerer.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	applied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "openings_applied_total",
		Help: "Pack opening events applied, by split policy.",
	}, []string{"policy"})
	undone := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "openings_undone_total",
		Help: "Pack opening events reversed via undo.",
	})
	overrides := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stock_overrides_total",
		Help: "Administrative stock overwrites.",
	})
	conflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_conflicts_total",
		Help: "Mutations rejected because the stock row changed concurrently.",
	})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_mutation_duration_seconds",
		Help:    "Duration of ledger mutations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	reg.MustRegister(applied, undone, overrides, conflicts, duration)
	return &LedgerMetrics{
		applied:   applied,
		undone:    undone,
		overrides: overrides,
		conflicts: conflicts,
		duration:  duration,
	}
}

// IncApplied increments the applied counter for the given policy.
func (m *LedgerMetrics) IncApplied(policy string) {
	if m == nil || m.applied == nil {
		return
	}
	m.applied.WithLabelValues(normalizeLabel(policy)).Inc()
}

// IncUndone increments the undo counter.
func (m *LedgerMetrics) IncUndone() {
	if m == nil || m.undone == nil {
		return
	}
	m.undone.Inc()
}

// IncOverride increments the administrative overwrite counter.
func (m *LedgerMetrics) IncOverride() {
	if m == nil || m.overrides == nil {
		return
	}
	m.overrides.Inc()
}

// IncConflict increments the concurrent-modification counter.
func (m *LedgerMetrics) IncConflict() {
	if m == nil || m.conflicts == nil {
		return
	}
	m.conflicts.Inc()
}

// ObserveDuration records the duration for the named mutation.
func (m *LedgerMetrics) ObserveDuration(operation string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
