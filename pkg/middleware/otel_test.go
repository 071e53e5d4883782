package middleware

import (
	"context"
	"testing"

	"github.com/vango-dev/statesync/pkg/reactive"
	"github.com/vango-dev/statesync/pkg/statesync"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// recordingTracer records span names and hands out no-op spans.
type recordingTracer struct {
	noop.Tracer
	names []string
}

func (r *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	r.names = append(r.names, name)
	return r.Tracer.Start(ctx, name, opts...)
}

func TestOpenTelemetryWrapsHooks(t *testing.T) {
	tracer := &recordingTracer{}
	actual := reactive.NewBoolSignal(true)
	calls := 0
	synced := false

	s := statesync.New[string](actual,
		func(statesync.Binding, statesync.Binding, statesync.Sync) string { return "" },
		statesync.OnDeactivate(func(sync statesync.Sync) {
			calls++
			sync()
			synced = true
		}),
		statesync.WithInterceptor(OpenTelemetry("dev-mode",
			WithTracer(tracer),
			WithSpanContext(context.Background),
		)),
	)
	defer s.Dispose()

	s.Shown().Set(false)

	if calls != 1 || !synced {
		t.Fatalf("hook should run through the interceptor")
	}
	if !s.Shown().Get() {
		t.Errorf("wrapped sync should still roll back")
	}
	if len(tracer.names) != 1 || tracer.names[0] != "statesync.deactivate" {
		t.Errorf("spans = %v, want [statesync.deactivate]", tracer.names)
	}
}

func TestOpenTelemetryGlobalTracer(t *testing.T) {
	interceptor := OpenTelemetry("dev-mode", WithTracerName("test"))
	ran := false
	hook := interceptor(statesync.Activate, func(statesync.Sync) { ran = true })
	hook(func() {})
	if !ran {
		t.Errorf("hook did not run")
	}
}

func TestOpenTelemetryPanicPropagates(t *testing.T) {
	hook := OpenTelemetry("dev-mode", WithTracer(noop.NewTracerProvider().Tracer("t")))(
		statesync.Activate, func(statesync.Sync) { panic("boom") })

	defer func() {
		if recover() == nil {
			t.Errorf("expected panic to propagate")
		}
	}()
	hook(func() {})
}
