package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCronJobMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)

	m.ObserveDuration("ezpass_association", 250*time.Millisecond)
	m.IncSuccess("ezpass_association")
	m.IncSuccess("ezpass_association")
	m.IncFailure("pvb_association")

	if got := testutil.ToFloat64(m.success.WithLabelValues("ezpass_association")); got != 2 {
		t.Fatalf("expected 2 successes, got %v", got)
	}
	if got := testutil.ToFloat64(m.failure.WithLabelValues("pvb_association")); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
}

func TestCronJobMetricsNilSafe(t *testing.T) {
	var m *CronJobMetrics
	m.ObserveDuration("x", time.Second)
	m.IncSuccess("x")
	m.IncFailure("x")

	empty := NewCronJobMetrics(nil)
	empty.IncSuccess("")
}

func TestSeederMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSeederMetrics(reg)

	m.ObserveSheet("address", 5, 2, 1)
	m.ObserveSheet("address", 1, 0, 0)

	if got := testutil.ToFloat64(m.created.WithLabelValues("address")); got != 6 {
		t.Fatalf("expected 6 created, got %v", got)
	}
	if got := testutil.ToFloat64(m.skipped.WithLabelValues("address")); got != 1 {
		t.Fatalf("expected 1 skipped, got %v", got)
	}
}
