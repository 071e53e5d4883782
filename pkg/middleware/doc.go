// Package middleware provides observability add-ons for StateSync widgets.
//
// Prometheus counts widget events, times hook calls and tracks which widgets
// are pending:
//
//	m := middleware.Prometheus(middleware.WithRegistry(reg))
//	toggle := statesync.New(flag, build,
//	    statesync.WithName("dev-mode"),
//	    statesync.WithObserver(m.Observer()),
//	    statesync.WithInterceptor(m.Interceptor("dev-mode")),
//	)
//
// OpenTelemetry wraps each hook call in a span:
//
//	statesync.WithInterceptor(middleware.OpenTelemetry("dev-mode"))
package middleware
