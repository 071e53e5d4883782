package reactive

import "log/slog"

// DebugMode enables debug logging of named transactions.
// This should be set at startup and not changed during runtime.
var DebugMode bool

// dispatcher is a goroutine's notification queue.
//
// Deliveries are appended in change order. A write made while the goroutine
// is idle (and outside any batch) drains the queue before returning; a write
// made from inside a delivery or a batch only appends. Every goroutine has
// its own dispatcher, so a writer never waits on, or hands work to, a
// delivery running elsewhere. A dispatcher is only touched by its own
// goroutine and needs no locking.
type dispatcher struct {
	gid        uint64
	queue      []func()
	draining   bool
	batchDepth int
}

// enqueue appends deliveries and drains them unless a drain or batch is
// already in progress on this goroutine.
func (d *dispatcher) enqueue(deliveries ...func()) {
	d.queue = append(d.queue, deliveries...)
	if d.draining || d.batchDepth > 0 {
		return
	}
	d.drain()
}

// drain runs queued deliveries until the queue is empty.
// If a delivery panics the queue is discarded so later writes on this
// goroutine are not stuck behind a drain that no longer exists.
func (d *dispatcher) drain() {
	d.draining = true
	defer func() {
		if r := recover(); r != nil {
			d.queue = nil
			d.draining = false
			d.release()
			panic(r)
		}
	}()

	for len(d.queue) > 0 && d.batchDepth == 0 {
		next := d.queue[0]
		d.queue[0] = nil
		d.queue = d.queue[1:]
		next()
	}
	d.draining = false
	d.release()
}

// release forgets the dispatcher once it holds no state.
func (d *dispatcher) release() {
	if !d.draining && d.batchDepth == 0 && len(d.queue) == 0 {
		dispatchers.Delete(d.gid)
	}
}

// endBatch closes one batch level and drains if it was the outermost one.
func (d *dispatcher) endBatch() {
	d.batchDepth--
	if d.batchDepth > 0 || d.draining {
		return
	}
	if len(d.queue) == 0 {
		d.release()
		return
	}
	d.drain()
}

// Batch groups multiple signal updates into a single delivery phase.
// Notifications caused inside fn are queued and delivered, in order, when the
// outermost batch on the calling goroutine completes. Deliveries are not coalesced: a signal that
// changes twice inside a batch notifies its subscribers twice.
//
// Batches can be nested.
//
// Example:
//
//	Batch(func() {
//	    firstName.Set("John")
//	    lastName.Set("Doe")
//	})
func Batch(fn func()) {
	d := currentDispatcher()
	d.batchDepth++
	defer d.endBatch()
	fn()
}

// Tx runs fn as a transaction. It is an alias for Batch.
func Tx(fn func()) {
	Batch(fn)
}

// TxNamed runs fn as a named transaction. The name is logged in debug mode.
func TxNamed(name string, fn func()) {
	if DebugMode {
		slog.Debug("tx start", "name", name)
		defer slog.Debug("tx end", "name", name)
	}
	Batch(fn)
}

// Flushing reports whether the calling goroutine is delivering
// notifications.
func Flushing() bool {
	d := peekDispatcher()
	return d != nil && d.draining
}
