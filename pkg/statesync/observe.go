package statesync

import (
	"context"

	"github.com/vango-dev/statesync/pkg/reactive"
)

// Observe returns an Observable for b.
//
// If b already reports its changes it is returned as is and stop does
// nothing. Otherwise b is wrapped in a started reactive.Poller: writes made
// through the returned value are reported immediately, writes made to b
// directly are reported on the next poll. Call stop to end polling.
func Observe(ctx context.Context, b Binding, opts ...reactive.PollOption) (o Observable, stop func()) {
	if native, ok := b.(Observable); ok {
		return native, func() {}
	}
	p := reactive.NewPoller[bool](b, opts...)
	p.Start(ctx)
	return p, p.Stop
}
