package reactive

import (
	"runtime"
	"sync"
)

// dispatchers stores per-goroutine dispatchers. An entry exists only while
// its goroutine is inside a batch or delivering.
var dispatchers sync.Map

// goroutineID returns the ID of the calling goroutine, parsed from the
// header of its stack trace ("goroutine <id> [...").
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := len("goroutine "); i < n; i++ {
		c := buf[i]
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + uint64(c-'0')
	}
	return id
}

// currentDispatcher returns the calling goroutine's dispatcher, creating it
// if needed.
func currentDispatcher() *dispatcher {
	gid := goroutineID()
	if d, ok := dispatchers.Load(gid); ok {
		return d.(*dispatcher)
	}
	d := &dispatcher{gid: gid}
	dispatchers.Store(gid, d)
	return d
}

// peekDispatcher returns the calling goroutine's dispatcher or nil.
func peekDispatcher() *dispatcher {
	if d, ok := dispatchers.Load(goroutineID()); ok {
		return d.(*dispatcher)
	}
	return nil
}
