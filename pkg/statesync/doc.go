// Package statesync provides StateSync, a component that reconciles the
// state a control shows with the state that is actually in effect.
//
// A toggle should move the moment the user touches it, but turning the
// underlying setting on may need a confirmation dialog, a network round trip
// or a permission prompt, any of which can fail or be cancelled. StateSync
// keeps two booleans:
//
//   - shown, owned by the widget, written by user input;
//   - actual, owned by the caller, the ground truth.
//
// When shown moves away from actual, the activate or deactivate hook runs
// with a reconciliation callback. The hook then either writes actual (commit),
// calls the callback (roll shown back), or does neither and leaves the
// control pending. Whenever actual changes, for any reason, shown is set to
// it.
//
// # Ordering
//
// Both triggers are subscriptions on reactive signals, so they are delivered
// through the reactive dispatcher: the shown handler returns before any
// notification it caused is delivered. A hook that commits synchronously
// therefore produces exactly one hook call followed by an idempotent snap.
//
// Deliveries queued behind other work may be out of date by the time they
// run. Both handlers compare against the live value and skip those, so
// several shown writes in one batch are evaluated once, for the last value.
// Hooks run on the goroutine that wrote the value.
//
// # Example
//
//	devMode := reactive.NewBoolSignal(false)
//
//	toggle := statesync.New(devMode,
//	    func(shown, actual statesync.Binding, sync statesync.Sync) string {
//	        if shown.Get() {
//	            return "[x] Developer mode"
//	        }
//	        return "[ ] Developer mode"
//	    },
//	    statesync.OnActivate(func(sync statesync.Sync) {
//	        go func() {
//	            if err := settings.Enable(ctx); err != nil {
//	                sync()
//	                return
//	            }
//	            devMode.SetTrue()
//	        }()
//	    }),
//	)
//	defer toggle.Dispose()
//
//	toggle.Shown().Set(true) // shows [x] at once, commits when Enable returns
package statesync
