package server

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config holds server and session configuration.
type Config struct {
	// Addr is the TCP address to listen on.
	// Default: ":8080".
	Addr string

	// Title is the page title written by the SSR handler.
	// Default: "statesync".
	Title string

	// LivePath is the WebSocket endpoint.
	// Default: "/live".
	LivePath string

	// MetricsPath is where Registry is exposed. Empty disables the endpoint.
	// Default: "/metrics".
	MetricsPath string

	// Timeouts

	// ReadTimeout is the maximum time to wait for a message from the client.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a message.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown in ListenAndServe.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// Limits

	// MaxMessageSize is the maximum size of an incoming WebSocket message.
	// Default: 4KB.
	MaxMessageSize int64

	// MaxEventQueue is the size of the event channel buffer.
	// Default: 64.
	MaxEventQueue int

	// Logger receives server and session logs.
	// Default: slog.Default().
	Logger *slog.Logger

	// Registry is gathered by the metrics endpoint.
	// Default: prometheus.DefaultGatherer.
	Registry prometheus.Gatherer
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Addr:            ":8080",
		Title:           "statesync",
		LivePath:        "/live",
		MetricsPath:     "/metrics",
		ReadTimeout:     60 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		MaxMessageSize:  4 * 1024,
		MaxEventQueue:   64,
		Logger:          slog.Default(),
		Registry:        prometheus.DefaultGatherer,
	}
}

// withDefaults fills zero fields from DefaultConfig. A nil config yields
// the defaults.
func (c *Config) withDefaults() *Config {
	defaults := DefaultConfig()
	if c == nil {
		return defaults
	}
	out := *c
	if out.Addr == "" {
		out.Addr = defaults.Addr
	}
	if out.Title == "" {
		out.Title = defaults.Title
	}
	if out.LivePath == "" {
		out.LivePath = defaults.LivePath
	}
	if out.ReadTimeout == 0 {
		out.ReadTimeout = defaults.ReadTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = defaults.WriteTimeout
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if out.MaxMessageSize == 0 {
		out.MaxMessageSize = defaults.MaxMessageSize
	}
	if out.MaxEventQueue == 0 {
		out.MaxEventQueue = defaults.MaxEventQueue
	}
	if out.Logger == nil {
		out.Logger = defaults.Logger
	}
	if out.Registry == nil {
		out.Registry = defaults.Registry
	}
	return &out
}
