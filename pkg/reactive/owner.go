package reactive

import (
	"sync"
	"sync/atomic"
)

// Subscribable is anything that reports changes of a T value.
// Signal, BoolSignal and Poller satisfy it.
type Subscribable[T any] interface {
	Subscribe(fn func(T)) (unsubscribe func())
}

// Owner represents a component scope that owns subscriptions and cleanups.
// When an Owner is disposed, its children are disposed first and then its
// own cleanups run in reverse registration order.
//
// Owners form a hierarchy mirroring the component tree: a session owns the
// components mounted in it, and a component owns its subscriptions.
type Owner struct {
	id uint64

	// parent is nil for a root Owner.
	parent *Owner

	children   []*Owner
	childrenMu sync.Mutex

	// cleanups are registered via OnCleanup and Watch.
	cleanups   []func()
	cleanupsMu sync.Mutex

	disposed atomic.Bool
}

// NewOwner creates a new Owner with the given parent.
// The new Owner is registered as a child of the parent.
// If parent is nil, creates a root Owner.
func NewOwner(parent *Owner) *Owner {
	o := &Owner{
		id:     nextID(),
		parent: parent,
	}
	if parent != nil {
		parent.addChild(o)
	}
	return o
}

// ID returns the unique identifier for this Owner.
func (o *Owner) ID() uint64 {
	return o.id
}

// Parent returns the parent Owner, or nil if this is a root Owner.
func (o *Owner) Parent() *Owner {
	return o.parent
}

// IsDisposed returns true if this Owner has been disposed.
func (o *Owner) IsDisposed() bool {
	return o.disposed.Load()
}

// OnCleanup registers fn to run when this Owner is disposed.
// If the Owner is already disposed, fn runs immediately.
func (o *Owner) OnCleanup(fn func()) {
	if fn == nil {
		return
	}
	if o.disposed.Load() {
		fn()
		return
	}

	o.cleanupsMu.Lock()
	o.cleanups = append(o.cleanups, fn)
	o.cleanupsMu.Unlock()
}

// Dispose disposes this Owner and all its children.
// Children are disposed last-created first, then cleanups run in reverse
// order. Dispose is idempotent.
func (o *Owner) Dispose() {
	if o.disposed.Swap(true) {
		return
	}

	if o.parent != nil {
		o.parent.removeChild(o)
	}

	o.childrenMu.Lock()
	children := make([]*Owner, len(o.children))
	copy(children, o.children)
	o.children = nil
	o.childrenMu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}

	o.cleanupsMu.Lock()
	cleanups := o.cleanups
	o.cleanups = nil
	o.cleanupsMu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

// Children returns the number of live child owners.
func (o *Owner) Children() int {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()
	return len(o.children)
}

func (o *Owner) addChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()
	o.children = append(o.children, child)
}

func (o *Owner) removeChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()

	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

// Watch subscribes fn to src for the lifetime of owner.
// The subscription is removed when owner is disposed. If owner is nil the
// caller is responsible for the returned unsubscribe function.
//
// Example:
//
//	reactive.Watch(owner, enabled, func(v bool) {
//	    log.Println("enabled:", v)
//	})
func Watch[T any](owner *Owner, src Subscribable[T], fn func(T)) (unsubscribe func()) {
	unsubscribe = src.Subscribe(fn)
	if owner != nil {
		owner.OnCleanup(unsubscribe)
	}
	return unsubscribe
}
