package demo

import (
	"context"
	"fmt"

	"github.com/vango-dev/statesync/pkg/reactive"
)

// Flag is the committed developer mode value, shared by every switch built
// over it. A commit through one switch reaches the others as an external
// change of their actual state.
type Flag struct {
	store FlagStore
	value *reactive.BoolSignal
}

// LoadFlag reads the current value from store.
func LoadFlag(ctx context.Context, store FlagStore) (*Flag, error) {
	if store == nil {
		store = NewMemoryStore(false)
	}
	v, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("demo: load developer mode: %w", err)
	}
	return &Flag{store: store, value: reactive.NewBoolSignal(v)}, nil
}

// Get returns the committed value.
func (f *Flag) Get() bool {
	return f.value.Get()
}

// Save writes v to the store. The committed value is not changed; call
// Publish once the save has succeeded.
func (f *Flag) Save(ctx context.Context, v bool) error {
	return f.store.Save(ctx, v)
}

// Publish sets the committed value and notifies every switch.
func (f *Flag) Publish(v bool) {
	f.value.Set(v)
}

// Subscribe registers fn for every change of the committed value.
func (f *Flag) Subscribe(fn func(bool)) (unsubscribe func()) {
	return f.value.Subscribe(fn)
}
