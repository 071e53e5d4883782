// Package reactive provides the observable state primitives that StateSync
// components are built on.
//
// # Signals
//
// Signal[T] is a value container that reports every change to its subscribers:
//
//	enabled := reactive.NewSignal(false)
//	stop := enabled.Subscribe(func(v bool) {
//	    fmt.Println("enabled is now", v)
//	})
//	enabled.Set(true) // prints "enabled is now true"
//	enabled.Set(true) // equal value, no notification
//	stop()
//
// # Delivery order
//
// Notifications are delivered synchronously through a FIFO queue owned by the
// writing goroutine. A subscriber that writes to another signal does not
// observe the resulting notification re-entrantly: it is queued and delivered
// after the current subscriber returns. Every change is delivered exactly
// once per subscriber, in the order the changes happened on that goroutine.
//
// Each goroutine drains only its own queue. A write is delivered on the
// goroutine that made it, before the write returns, regardless of what other
// goroutines are delivering. Subscribers shared between goroutines may run
// concurrently; work that must happen on a particular goroutine is handed
// over explicitly, as server.Session.Dispatch does.
//
// Batch defers delivery until the outermost batch completes:
//
//	reactive.Batch(func() {
//	    first.Set("Ada")
//	    last.Set("Lovelace")
//	})
//
// # Ownership
//
// Owner groups cleanups so that a component can release its subscriptions in
// one call. Owners form a tree; disposing a parent disposes its children first.
//
// # Polling fallback
//
// Poller adapts a plain getter/setter pair that cannot report changes on its
// own into something that can, by comparing against a mirror on an interval.
package reactive
