package middleware

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/vango-dev/statesync/pkg/reactive"
	"github.com/vango-dev/statesync/pkg/statesync"
)

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func newInstrumented(t *testing.T, m *Metrics, activate statesync.Hook) (*statesync.StateSync[string], *reactive.BoolSignal) {
	t.Helper()
	actual := reactive.NewBoolSignal(false)
	s := statesync.New[string](actual,
		func(statesync.Binding, statesync.Binding, statesync.Sync) string { return "" },
		statesync.WithName("dev-mode"),
		statesync.OnActivate(activate),
		statesync.WithObserver(m.Observer()),
		statesync.WithInterceptor(m.Interceptor("dev-mode")),
	)
	t.Cleanup(s.Dispose)
	return s, actual
}

func TestPrometheusRecordsEventsAndPending(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := Prometheus(WithRegistry(reg))
	s, actual := newInstrumented(t, m, func(statesync.Sync) {})

	s.Shown().Set(true)

	if got := testutil.ToFloat64(m.events.WithLabelValues("dev-mode", "activate")); got != 1 {
		t.Errorf("activate events = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.pending.WithLabelValues("dev-mode", "")); got != 1 {
		t.Errorf("pending = %v, want 1", got)
	}

	actual.SetTrue()

	if got := testutil.ToFloat64(m.events.WithLabelValues("dev-mode", "snap")); got != 1 {
		t.Errorf("snap events = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.pending.WithLabelValues("dev-mode", "")); got != 0 {
		t.Errorf("pending = %v, want 0", got)
	}
	if got := metricHistogramCount(t, m.hookDuration.WithLabelValues("dev-mode", "activate")); got != 1 {
		t.Errorf("hook duration samples = %d, want 1", got)
	}
}

func TestPrometheusRollbackClearsPending(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := Prometheus(WithRegistry(reg), WithNamespace("app"), WithSubsystem("ui"),
		WithConstLabels(prometheus.Labels{"env": "test"}), WithBuckets([]float64{0.1, 1}))
	s, _ := newInstrumented(t, m, func(sync statesync.Sync) { sync() })

	s.Shown().Set(true)

	if got := testutil.ToFloat64(m.events.WithLabelValues("dev-mode", "rollback")); got != 1 {
		t.Errorf("rollback events = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.pending.WithLabelValues("dev-mode", "")); got != 0 {
		t.Errorf("pending = %v, want 0", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "app_ui_events_total" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected app_ui_events_total to be registered")
	}
}

func TestSessionObserversKeepSeparatePending(t *testing.T) {
	m := Prometheus(WithRegistry(prometheus.NewRegistry()))

	newWidget := func(session string) (*statesync.StateSync[string], *reactive.BoolSignal) {
		actual := reactive.NewBoolSignal(false)
		s := statesync.New[string](actual,
			func(statesync.Binding, statesync.Binding, statesync.Sync) string { return "" },
			statesync.WithName("dev-mode"),
			statesync.WithObserver(m.SessionObserver(session)),
		)
		t.Cleanup(s.Dispose)
		return s, actual
	}
	a, _ := newWidget("a")
	b, bActual := newWidget("b")

	a.Shown().Set(true)
	b.Shown().Set(true)
	bActual.SetTrue()

	if got := testutil.ToFloat64(m.pending.WithLabelValues("dev-mode", "a")); got != 1 {
		t.Errorf("session a pending = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.pending.WithLabelValues("dev-mode", "b")); got != 0 {
		t.Errorf("session b pending = %v, want 0", got)
	}

	m.ForgetSession("a")
	if got := testutil.CollectAndCount(m.pending); got != 1 {
		t.Errorf("pending series after ForgetSession = %d, want 1", got)
	}
}
