package middleware

import (
	"context"

	"github.com/vango-dev/statesync/pkg/statesync"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for StateSync spans.
const defaultTracerName = "statesync"

// OTelConfig configures the OpenTelemetry interceptor.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "statesync").
	// Ignored when Tracer is set.
	TracerName string

	// Tracer overrides the tracer resolved from the global provider.
	Tracer trace.Tracer

	// Context is the parent context for hook spans.
	// Default: context.Background().
	Context func() context.Context
}

// OTelOption configures the OpenTelemetry interceptor.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracer sets the tracer directly.
func WithTracer(tracer trace.Tracer) OTelOption {
	return func(c *OTelConfig) {
		c.Tracer = tracer
	}
}

// WithSpanContext sets the function that supplies the parent context for
// each hook span.
func WithSpanContext(fn func() context.Context) OTelOption {
	return func(c *OTelConfig) {
		c.Context = fn
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
		Context:    context.Background,
	}
}

// OpenTelemetry returns an interceptor that wraps each hook call of the
// widget called name in a span named "statesync.activate" or
// "statesync.deactivate".
//
// Span attributes:
//   - statesync.name: the widget name
//   - statesync.transition: activate or deactivate
//   - statesync.rolled_back: true if the hook called the reconciliation
//     callback before returning
//
// A hook that panics marks its span as an error before the panic continues.
//
// The tracer uses the global OpenTelemetry tracer provider unless WithTracer
// is given. Configure it in main() before creating widgets:
//
//	otel.SetTracerProvider(tp)
func OpenTelemetry(name string, opts ...OTelOption) statesync.Interceptor {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	tracer := config.Tracer
	if tracer == nil {
		tracer = otel.Tracer(config.TracerName)
	}

	return func(t statesync.Transition, next statesync.Hook) statesync.Hook {
		return func(sync statesync.Sync) {
			_, span := tracer.Start(
				config.Context(),
				"statesync."+t.String(),
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(
					attribute.String("statesync.name", name),
					attribute.String("statesync.transition", t.String()),
				),
			)

			rolledBack := false
			returned := false
			defer func() {
				span.SetAttributes(attribute.Bool("statesync.rolled_back", rolledBack))
				if !returned {
					span.SetStatus(codes.Error, "hook panicked")
				}
				span.End()
			}()

			next(func() {
				rolledBack = true
				sync()
			})
			returned = true
		}
	}
}
