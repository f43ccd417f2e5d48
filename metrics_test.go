package authcore

import (
	"context"
	"sync"
	"testing"
)

func TestMetricsCountEngineOperations(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	pair, err := engine.Register(ctx, "a@b.com", "Str0ng!Pass")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	_, _ = engine.Register(ctx, "a@b.com", "Other1!Pass")
	_, _ = engine.Register(ctx, "b@b.com", "weak")
	_, _ = engine.Login(ctx, "a@b.com", "Str0ng!Pass")
	_, _ = engine.Login(ctx, "a@b.com", "Wr0ng!Pass1")
	_, _ = engine.Refresh(ctx, pair.RefreshToken)
	_ = engine.Logout(ctx, pair.RefreshToken)
	_ = engine.Logout(ctx, pair.RefreshToken)
	_ = engine.LogoutAll(ctx, "user-1")

	snap := engine.MetricsSnapshot()
	want := map[MetricID]uint64{
		MetricRegisterSuccess:      1,
		MetricRegisterDuplicate:    1,
		MetricRegisterWeakPassword: 1,
		MetricLoginSuccess:         1,
		MetricLoginFailure:         1,
		MetricRefreshSuccess:       1,
		MetricLogout:               1,
		MetricLogoutNotFound:       1,
		MetricLogoutAll:            1,
	}
	for id, count := range want {
		if snap.Counters[id] != count {
			t.Fatalf("counter %d = %d, want %d", id, snap.Counters[id], count)
		}
	}
}

func TestMetricsDisabled(t *testing.T) {
	engine, _ := newTestEngine(t, func(b *Builder) {
		b.WithMetricsEnabled(false)
	})

	if _, err := engine.Register(context.Background(), "a@b.com", "Str0ng!Pass"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	snap := engine.MetricsSnapshot()
	if len(snap.Counters) != 0 {
		t.Fatalf("expected empty snapshot, got %v", snap.Counters)
	}
}

func TestMetricsConcurrentInc(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				m.Inc(MetricLoginSuccess)
			}
		}()
	}
	wg.Wait()

	if got := m.Value(MetricLoginSuccess); got != 16000 {
		t.Fatalf("counter = %d, want 16000", got)
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.Inc(MetricLoginSuccess)
	if m.Value(MetricLoginSuccess) != 0 {
		t.Fatal("expected zero from nil metrics")
	}
	if m.Enabled() {
		t.Fatal("expected nil metrics to be disabled")
	}
	if snap := m.Snapshot(); len(snap.Counters) != 0 {
		t.Fatal("expected empty snapshot from nil metrics")
	}
}

func TestMetricsOutOfRangeIgnored(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Inc(metricIDCount)
	m.Inc(metricIDCount + 1)
	if got := m.Value(metricIDCount); got != 0 {
		t.Fatalf("expected out-of-range reads to return 0, got %d", got)
	}
}
