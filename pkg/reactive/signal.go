package reactive

import (
	"reflect"
	"sync"
)

// subscription is a single registered change callback.
type subscription[T any] struct {
	id uint64
	fn func(T)
}

// Signal is an observable value container.
// Every change made through Set or Update is delivered to all subscribers
// on the writing goroutine.
type Signal[T any] struct {
	id uint64

	// value is the current signal value.
	value T

	// mu protects value.
	mu sync.RWMutex

	// subs are the change callbacks registered on this signal.
	subs  []*subscription[T]
	subMu sync.RWMutex

	// equal is the equality function used to decide whether a write is a change.
	// If nil, defaultEquals is used.
	equal func(T, T) bool
}

// NewSignal creates a new signal with the given initial value.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		id:    nextID(),
		value: initial,
	}
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Peek returns the current value. It is an alias of Get kept so call sites
// can state that they only inspect the value.
func (s *Signal[T]) Peek() T {
	return s.Get()
}

// Set updates the signal's value and notifies subscribers if the value changed.
func (s *Signal[T]) Set(value T) {
	s.mu.Lock()
	changed := !s.equals(s.value, value)
	if changed {
		s.value = value
	}
	s.mu.Unlock()

	if changed {
		s.notify(value)
	}
}

// Update atomically reads and updates the signal's value.
// The function receives the current value and returns the new value.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	oldValue := s.value
	newValue := fn(oldValue)
	changed := !s.equals(oldValue, newValue)
	if changed {
		s.value = newValue
	}
	s.mu.Unlock()

	if changed {
		s.notify(newValue)
	}
}

// Subscribe registers fn to be called with the new value after every change.
// The returned function removes the subscription; calling it more than once
// is a no-op. Deliveries already queued for a removed subscription are dropped.
func (s *Signal[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	sub := &subscription[T]{id: nextID(), fn: fn}

	s.subMu.Lock()
	s.subs = append(s.subs, sub)
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(sub.id) })
	}
}

// Subscribers returns the number of active subscriptions.
func (s *Signal[T]) Subscribers() int {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	return len(s.subs)
}

// WithEquals returns the signal configured with a custom equality function.
// This is useful for types where reflect.DeepEqual is too expensive
// or has the wrong semantics.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// ID returns the unique identifier for this signal.
func (s *Signal[T]) ID() uint64 {
	return s.id
}

func (s *Signal[T]) unsubscribe(id uint64) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for i, existing := range s.subs {
		if existing.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

func (s *Signal[T]) active(id uint64) bool {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	for _, existing := range s.subs {
		if existing.id == id {
			return true
		}
	}
	return false
}

// notify queues one delivery per subscriber, in subscription order.
// Uses copy-before-notify so no lock is held while callbacks run.
func (s *Signal[T]) notify(value T) {
	s.subMu.RLock()
	subs := make([]*subscription[T], len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	if len(subs) == 0 {
		return
	}

	deliveries := make([]func(), 0, len(subs))
	for _, sub := range subs {
		sub := sub
		deliveries = append(deliveries, func() {
			if s.active(sub.id) {
				sub.fn(value)
			}
		})
	}
	currentDispatcher().enqueue(deliveries...)
}

// equals checks if two values are equal using the configured equality function.
func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals uses == for common comparable kinds and reflect.DeepEqual otherwise.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case bool:
		return av == any(b).(bool)
	case int:
		return av == any(b).(int)
	case int64:
		return av == any(b).(int64)
	case uint64:
		return av == any(b).(uint64)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	default:
		return reflect.DeepEqual(a, b)
	}
}
