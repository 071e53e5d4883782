package statesync

// Transition names the direction a hook is asked to move the actual state.
type Transition uint8

const (
	// Activate moves the actual state from false to true.
	Activate Transition = iota + 1
	// Deactivate moves the actual state from true to false.
	Deactivate
)

// String returns a human-readable name for the transition.
func (t Transition) String() string {
	switch t {
	case Activate:
		return "activate"
	case Deactivate:
		return "deactivate"
	default:
		return "unknown"
	}
}

// Interceptor wraps a hook. Interceptors are applied once, at construction,
// to hooks that were supplied; absent hooks are never wrapped.
type Interceptor func(t Transition, next Hook) Hook

// hook is a resolved hook slot: either the caller's function, possibly
// wrapped by interceptors, or the absent no-op.
type hook struct {
	present bool
	fn      Hook
}

// absent is the no-op used when a hook was not supplied.
func absent(Sync) {}

// resolveHook turns an optional Hook into a hook slot.
// Interceptors are applied in order, so the first one is outermost.
func resolveHook(t Transition, fn Hook, interceptors []Interceptor) hook {
	if fn == nil {
		return hook{fn: absent}
	}
	for i := len(interceptors) - 1; i >= 0; i-- {
		if wrapped := interceptors[i](t, fn); wrapped != nil {
			fn = wrapped
		}
	}
	return hook{present: true, fn: fn}
}
