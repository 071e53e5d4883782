package demo

import (
	"context"
	"errors"
	"sync"
)

// ErrStoreClosed is returned by a MemoryStore after Close.
var ErrStoreClosed = errors.New("demo: store closed")

// FlagStore persists a single boolean flag.
type FlagStore interface {
	Load(ctx context.Context) (bool, error)
	Save(ctx context.Context, v bool) error
}

// MemoryStore keeps the flag in memory.
//
// FailNext makes the next Save fail, which is how the rollback path is
// exercised in tests and in the demo.
type MemoryStore struct {
	mu       sync.Mutex
	value    bool
	failNext error
	saves    int
	closed   bool
}

// NewMemoryStore creates a MemoryStore holding initial.
func NewMemoryStore(initial bool) *MemoryStore {
	return &MemoryStore{value: initial}
}

// Load returns the stored flag.
func (m *MemoryStore) Load(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false, ErrStoreClosed
	}
	return m.value, nil
}

// Save stores v, unless a failure was armed with FailNext.
func (m *MemoryStore) Save(ctx context.Context, v bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStoreClosed
	}
	if err := m.failNext; err != nil {
		m.failNext = nil
		return err
	}
	m.value = v
	m.saves++
	return nil
}

// FailNext arms err to be returned by the next Save.
func (m *MemoryStore) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

// Saves returns the number of successful saves.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Close makes every later call fail with ErrStoreClosed.
func (m *MemoryStore) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}
