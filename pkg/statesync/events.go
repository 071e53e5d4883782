package statesync

// EventKind classifies what a StateSync did in response to a change.
type EventKind uint8

const (
	// EventMatched: the shown state changed to a value equal to the actual
	// state, so no hook ran.
	EventMatched EventKind = iota + 1
	// EventActivate: the activate hook is about to run.
	EventActivate
	// EventDeactivate: the deactivate hook is about to run.
	EventDeactivate
	// EventSnap: the actual state changed and the shown state is being set
	// to it.
	EventSnap
	// EventRollback: the reconciliation callback moved a diverged shown
	// state back to the actual state.
	EventRollback
)

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventMatched:
		return "matched"
	case EventActivate:
		return "activate"
	case EventDeactivate:
		return "deactivate"
	case EventSnap:
		return "snap"
	case EventRollback:
		return "rollback"
	default:
		return "unknown"
	}
}

// Event describes one reaction of a StateSync. Shown and Actual are the
// values at the moment the event was emitted.
type Event struct {
	Name   string
	Kind   EventKind
	Shown  bool
	Actual bool
}

// Observer receives every Event a StateSync emits.
type Observer interface {
	Observe(e Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(e Event)

// Observe implements Observer.
func (f ObserverFunc) Observe(e Event) {
	f(e)
}

// multiObserver fans an event out to several observers in order.
type multiObserver []Observer

func (m multiObserver) Observe(e Event) {
	for _, o := range m {
		o.Observe(e)
	}
}
