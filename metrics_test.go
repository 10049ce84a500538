package kvauth

import (
	"sync"
	"testing"
)

func TestMetricsDisabledIgnoresInc(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})
	m.Inc(MetricLoginSuccess)

	snap := m.Snapshot()
	if len(snap.Counters) != 0 {
		t.Fatalf("expected empty snapshot, got %v", snap.Counters)
	}
}

func TestMetricsSnapshotOmitsZeroCounters(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Inc(MetricLoginSuccess)
	m.Inc(MetricLoginSuccess)
	m.Inc(MetricLogout)

	snap := m.Snapshot()
	if snap.Counters[MetricLoginSuccess] != 2 {
		t.Fatalf("expected 2, got %d", snap.Counters[MetricLoginSuccess])
	}
	if snap.Counters[MetricLogout] != 1 {
		t.Fatalf("expected 1, got %d", snap.Counters[MetricLogout])
	}
	if _, ok := snap.Counters[MetricLoginFailure]; ok {
		t.Fatal("expected zero counters to be omitted")
	}
}

func TestMetricsConcurrentInc(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const goroutines = 16
	const perGoroutine = 1000

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				m.Inc(MetricValidateSuccess)
			}
		}()
	}
	wg.Wait()

	snap := m.Snapshot()
	if got := snap.Counters[MetricValidateSuccess]; got != goroutines*perGoroutine {
		t.Fatalf("expected %d, got %d", goroutines*perGoroutine, got)
	}
}

func TestMetricNames(t *testing.T) {
	seen := map[string]bool{}
	for id := MetricID(0); id < metricIDCount; id++ {
		name := MetricName(id)
		if name == "unknown" {
			t.Fatalf("metric %d has no exposition name", id)
		}
		if seen[name] {
			t.Fatalf("duplicate exposition name %q", name)
		}
		seen[name] = true
	}
	if MetricName(metricIDCount) != "unknown" {
		t.Fatal("out-of-range id must map to unknown")
	}
}
