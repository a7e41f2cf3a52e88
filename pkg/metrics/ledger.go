package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MovementMetrics records the outcome of stock movement attempts. All
// methods are safe on a nil receiver so wiring metrics stays optional in
// tests and tooling.
type MovementMetrics struct {
	applied   *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	conflicts prometheus.Counter
	duration  *prometheus.HistogramVec
}

// NewMovementMetrics registers the ledger metrics on the provided registerer.
func NewMovementMetrics(reg prometheus.Registerer) *MovementMetrics {
	if reg == nil {
		return &MovementMetrics{}
	}
	applied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_movements_applied_total",
		Help: "Stock movements applied to the ledger.",
	}, []string{"type"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_movements_rejected_total",
		Help: "Stock movements rejected before mutation.",
	}, []string{"type", "reason"})
	conflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inventory_movement_conflicts_total",
		Help: "Optimistic concurrency conflicts (including retried ones).",
	})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventory_movement_duration_seconds",
		Help:    "Duration of movement application in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"type"})
	reg.MustRegister(applied, rejected, conflicts, duration)
	return &MovementMetrics{
		applied:   applied,
		rejected:  rejected,
		conflicts: conflicts,
		duration:  duration,
	}
}

// IncApplied increments the applied counter for the movement type.
func (m *MovementMetrics) IncApplied(movementType string) {
	if m == nil || m.applied == nil {
		return
	}
	m.applied.WithLabelValues(normalizeLabel(movementType)).Inc()
}

// IncRejected increments the rejected counter with the rejection reason.
func (m *MovementMetrics) IncRejected(movementType, reason string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(movementType), normalizeLabel(reason)).Inc()
}

// IncConflict counts an optimistic concurrency conflict.
func (m *MovementMetrics) IncConflict() {
	if m == nil || m.conflicts == nil {
		return
	}
	m.conflicts.Inc()
}

// ObserveDuration records how long a movement took to apply.
func (m *MovementMetrics) ObserveDuration(movementType string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(movementType)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
