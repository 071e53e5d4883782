package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/statesync/pkg/statesync"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "statesync").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for hook duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "statesync",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors for StateSync widgets.
type Metrics struct {
	events       *prometheus.CounterVec
	hookDuration *prometheus.HistogramVec
	pending      *prometheus.GaugeVec
}

// Prometheus creates and registers the StateSync collectors.
//
// Metrics collected:
//   - statesync_events_total: Counter of widget events by name and kind
//   - statesync_hook_duration_seconds: Histogram of hook call duration
//   - statesync_pending: Gauge by name and session, 1 while a widget's shown
//     state waits on its actual state
//
// Collectors are registered once per call; use a fresh registry per
// Prometheus call or share one Metrics between widgets.
func Prometheus(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "events_total",
			Help:        "Total number of StateSync events by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"name", "kind"}),

		hookDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "hook_duration_seconds",
			Help:        "Time spent inside activate and deactivate hooks",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"name", "transition"}),

		pending: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pending",
			Help:        "1 while the shown state differs from the actual state",
			ConstLabels: config.ConstLabels,
		}, []string{"name", "session"}),
	}
}

// Observer returns a statesync.Observer that records events. Its pending
// gauge carries an empty session label; use SessionObserver when several
// widgets share a name.
func (m *Metrics) Observer() statesync.Observer {
	return m.SessionObserver("")
}

// SessionObserver returns a statesync.Observer whose pending gauge is
// labelled with session, so widgets of the same name in different sessions
// do not overwrite each other. Call ForgetSession when the session ends.
func (m *Metrics) SessionObserver(session string) statesync.Observer {
	return statesync.ObserverFunc(func(e statesync.Event) {
		m.observe(session, e)
	})
}

// ForgetSession removes the pending series recorded for session.
func (m *Metrics) ForgetSession(session string) {
	m.pending.DeletePartialMatch(prometheus.Labels{"session": session})
}

func (m *Metrics) observe(session string, e statesync.Event) {
	m.events.WithLabelValues(e.Name, e.Kind.String()).Inc()

	// Every event except a hook dispatch leaves shown equal to actual.
	switch e.Kind {
	case statesync.EventActivate, statesync.EventDeactivate:
		m.pending.WithLabelValues(e.Name, session).Set(1)
	default:
		m.pending.WithLabelValues(e.Name, session).Set(0)
	}
}

// Interceptor returns a statesync.Interceptor that times hook calls for the
// widget called name.
func (m *Metrics) Interceptor(name string) statesync.Interceptor {
	return func(t statesync.Transition, next statesync.Hook) statesync.Hook {
		observer := m.hookDuration.WithLabelValues(name, t.String())
		return func(sync statesync.Sync) {
			start := time.Now()
			defer func() {
				observer.Observe(time.Since(start).Seconds())
			}()
			next(sync)
		}
	}
}
