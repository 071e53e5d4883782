package statesync

import (
	"log/slog"

	"github.com/vango-dev/statesync/pkg/reactive"
)

// config holds the options collected by New.
type config struct {
	name         string
	activate     Hook
	deactivate   Hook
	observers    []Observer
	interceptors []Interceptor
	logger       *slog.Logger
	parent       *reactive.Owner
}

func defaultConfig() config {
	return config{
		logger: slog.Default(),
	}
}

// observer collapses the configured observers into one, or nil.
func (c *config) observer() Observer {
	switch len(c.observers) {
	case 0:
		return nil
	case 1:
		return c.observers[0]
	default:
		return multiObserver(c.observers)
	}
}

// Option configures a StateSync.
type Option func(*config)

// OnActivate sets the hook run when the shown state turns true while the
// actual state is false.
func OnActivate(h Hook) Option {
	return func(c *config) {
		c.activate = h
	}
}

// OnDeactivate sets the hook run when the shown state turns false while the
// actual state is true.
func OnDeactivate(h Hook) Option {
	return func(c *config) {
		c.deactivate = h
	}
}

// WithName labels the widget in events, logs and metrics.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithObserver adds an observer. Observers are called in the order added.
func WithObserver(o Observer) Option {
	return func(c *config) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// WithInterceptor adds a hook interceptor. The first interceptor added is
// the outermost.
func WithInterceptor(i Interceptor) Option {
	return func(c *config) {
		if i != nil {
			c.interceptors = append(c.interceptors, i)
		}
	}
}

// WithLogger sets the logger used for debug event logging.
// Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithOwner makes the widget's scope a child of parent, so disposing parent
// disposes the widget.
func WithOwner(parent *reactive.Owner) Option {
	return func(c *config) {
		c.parent = parent
	}
}
