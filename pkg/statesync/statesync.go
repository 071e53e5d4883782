package statesync

import (
	"log/slog"
	"sync"

	"github.com/vango-dev/statesync/pkg/reactive"
)

// Binding is a two-way handle on a boolean slot.
type Binding interface {
	Get() bool
	Set(bool)
}

// Observable is a Binding that reports every change of its value.
// *reactive.BoolSignal and *reactive.Poller[bool] satisfy it.
type Observable interface {
	Binding
	Subscribe(fn func(bool)) (unsubscribe func())
}

// Sync rolls the shown state back to the actual state.
type Sync func()

// Hook is called when the shown state asks for a transition the actual state
// has not made yet. It commits by writing the actual state, aborts by calling
// sync, or leaves the transition pending by doing neither.
type Hook func(sync Sync)

// Builder produces the content for a StateSync from the shown handle, the
// actual handle and the reconciliation callback.
type Builder[C any] func(shown, actual Binding, sync Sync) C

// StateSync keeps an optimistic shown state in step with an externally owned
// actual state.
//
// Writes to the shown handle are answered immediately and, when they disagree
// with the actual state, routed to the activate or deactivate hook. Any change
// of the actual state, whatever caused it, snaps the shown state to match.
type StateSync[C any] struct {
	name   string
	shown  *reactive.BoolSignal
	actual Observable
	build  Builder[C]

	activate   hook
	deactivate hook

	observer Observer
	logger   *slog.Logger

	owner *reactive.Owner
	sync  Sync

	// evaluated is the last shown value the shown handler acted on.
	mu        sync.Mutex
	evaluated bool
}

// New creates a StateSync over actual.
//
// The shown state starts as a snapshot of actual.Get(). Hooks not supplied
// through OnActivate or OnDeactivate do nothing.
//
// Example:
//
//	toggle := statesync.New(devMode, func(shown, actual statesync.Binding, sync statesync.Sync) *vdom.VNode {
//	    return vdom.Input(vdom.Type("checkbox"), vdom.Checked(shown.Get()),
//	        vdom.OnChange(func() { shown.Set(!shown.Get()) }))
//	}, statesync.OnActivate(func(sync statesync.Sync) {
//	    confirm.Open(sync)
//	}))
func New[C any](actual Observable, build Builder[C], opts ...Option) *StateSync[C] {
	if actual == nil {
		panic("statesync: New called with nil actual state")
	}
	if build == nil {
		panic("statesync: New called with nil builder")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	initial := actual.Get()
	s := &StateSync[C]{
		name:       cfg.name,
		shown:      reactive.NewBoolSignal(initial),
		actual:     actual,
		build:      build,
		activate:   resolveHook(Activate, cfg.activate, cfg.interceptors),
		deactivate: resolveHook(Deactivate, cfg.deactivate, cfg.interceptors),
		observer:   cfg.observer(),
		logger:     cfg.logger,
		owner:      reactive.NewOwner(cfg.parent),
		evaluated:  initial,
	}
	s.sync = s.reconcile

	reactive.Watch[bool](s.owner, s.shown, s.onShownChanged)
	reactive.Watch[bool](s.owner, s.actual, s.onActualChanged)

	return s
}

// onShownChanged runs for every change of the shown state.
//
// v is the value from when the change was queued. A delivery whose value
// has since been overwritten is skipped, as is one for the value already
// evaluated, so a burst of writes settles into at most one hook call for
// the value the shown state ended on.
func (s *StateSync[C]) onShownChanged(v bool) {
	if !s.claim(v) {
		s.logger.Debug("statesync stale shown change skipped", "name", s.name, "shown", v)
		return
	}

	actual := s.actual.Get()
	if v == actual {
		s.emit(EventMatched, v, actual)
		return
	}

	h := s.deactivate
	kind := EventDeactivate
	if v {
		h = s.activate
		kind = EventActivate
	}
	s.emit(kind, v, actual)
	if !h.present {
		s.logger.Debug("statesync hook not set", "name", s.name, "kind", kind.String())
	}
	h.fn(s.sync)
}

// claim reports whether a shown delivery of v should be evaluated and, if
// so, records v as evaluated.
func (s *StateSync[C]) claim(v bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v != s.shown.Get() || v == s.evaluated {
		return false
	}
	s.evaluated = v
	return true
}

// onActualChanged runs for every change of the actual state. A delivery
// whose value has since been overwritten is skipped; the delivery of the
// newer value snaps instead.
func (s *StateSync[C]) onActualChanged(w bool) {
	if w != s.actual.Get() {
		s.logger.Debug("statesync stale actual change skipped", "name", s.name, "actual", w)
		return
	}
	s.emit(EventSnap, s.shown.Get(), w)
	s.shown.Set(w)
}

// reconcile is the Sync handed to builders and hooks.
func (s *StateSync[C]) reconcile() {
	actual := s.actual.Get()
	shown := s.shown.Get()
	if shown != actual {
		s.emit(EventRollback, shown, actual)
	}
	s.shown.Set(actual)
}

func (s *StateSync[C]) emit(kind EventKind, shown, actual bool) {
	e := Event{Name: s.name, Kind: kind, Shown: shown, Actual: actual}
	s.logger.Debug("statesync event",
		"name", e.Name,
		"kind", e.Kind.String(),
		"shown", e.Shown,
		"actual", e.Actual,
	)
	if s.observer != nil {
		s.observer.Observe(e)
	}
}

// Render builds the content from the current handles.
func (s *StateSync[C]) Render() C {
	return s.build(s.shown, s.actual, s.sync)
}

// Shown returns the handle on the shown state. Writing to it is how user
// input enters the widget.
func (s *StateSync[C]) Shown() Binding {
	return s.shown
}

// Actual returns the actual state handle that was passed to New.
func (s *StateSync[C]) Actual() Binding {
	return s.actual
}

// Sync sets the shown state to the current actual state.
func (s *StateSync[C]) Sync() {
	s.sync()
}

// SyncFunc returns the reconciliation callback. The same function value is
// returned for the lifetime of the widget.
func (s *StateSync[C]) SyncFunc() Sync {
	return s.sync
}

// Subscribe registers fn for every change of the shown state, whatever
// caused it. It makes a StateSync usable wherever a
// reactive.Subscribable[bool] is expected.
func (s *StateSync[C]) Subscribe(fn func(shown bool)) (unsubscribe func()) {
	return s.shown.Subscribe(fn)
}

// Pending reports whether the shown state is waiting on the actual state.
func (s *StateSync[C]) Pending() bool {
	return s.shown.Get() != s.actual.Get()
}

// Name returns the name set with WithName.
func (s *StateSync[C]) Name() string {
	return s.name
}

// Owner returns the scope that holds the widget's subscriptions.
func (s *StateSync[C]) Owner() *reactive.Owner {
	return s.owner
}

// Dispose removes both subscriptions. After Dispose, writes to the shown
// handle no longer reach the hooks and actual changes no longer snap the
// shown state. Dispose is idempotent.
func (s *StateSync[C]) Dispose() {
	s.owner.Dispose()
}
