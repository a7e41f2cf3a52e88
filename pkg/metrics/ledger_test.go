package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestMovementMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMovementMetrics(reg)

	metrics.IncApplied("stock_in")
	metrics.IncRejected("stock_out", "insufficient_stock")
	metrics.IncConflict()
	metrics.ObserveDuration("stock_in", 250*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "inventory_movements_applied_total", "type", "stock_in"); err != nil {
		t.Fatalf("fetch applied: %v", err)
	} else if got != 1 {
		t.Fatalf("expected applied=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "inventory_movements_rejected_total", "reason", "insufficient_stock"); err != nil {
		t.Fatalf("fetch rejected: %v", err)
	} else if got != 1 {
		t.Fatalf("expected rejected=1, got %f", got)
	}

	conflicts := findMetricFamily(mfs, "inventory_movement_conflicts_total")
	if conflicts == nil || len(conflicts.GetMetric()) == 0 {
		t.Fatal("conflicts counter not exported")
	}
	if got := conflicts.GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected conflicts=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "inventory_movement_duration_seconds", "type", "stock_in"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestMovementMetricsNilReceiverIsSafe(t *testing.T) {
	var metrics *MovementMetrics
	metrics.IncApplied("stock_in")
	metrics.IncRejected("stock_out", "validation")
	metrics.IncConflict()
	metrics.ObserveDuration("adjustment", time.Second)

	empty := NewMovementMetrics(nil)
	empty.IncApplied("stock_in")
	empty.IncConflict()
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
