package reactive

import (
	"context"
	"sync"
	"time"

	"github.com/zoobzio/clockz"
)

// DefaultPollInterval is how often a started Poller compares its source
// against the last value it reported.
const DefaultPollInterval = 250 * time.Millisecond

// Source is a plain read/write value with no change notification of its own.
type Source[T any] interface {
	Get() T
	Set(T)
}

// pollConfig holds Poller options.
type pollConfig struct {
	interval time.Duration
	clock    clockz.Clock
}

// PollOption configures a Poller.
type PollOption func(*pollConfig)

// WithPollInterval sets the polling interval. Non-positive values are ignored.
func WithPollInterval(d time.Duration) PollOption {
	return func(c *pollConfig) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithPollClock sets the clock used for the polling timer.
// Use this with clockz.FakeClock for deterministic tests.
func WithPollClock(clock clockz.Clock) PollOption {
	return func(c *pollConfig) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// Poller makes a Source observable.
//
// Writes made through the Poller are reported immediately. Writes made to the
// Source behind the Poller's back are reported the next time Poll runs,
// either explicitly or from the loop started by Start. Intermediate values
// that come and go between two polls are not observed.
type Poller[T comparable] struct {
	src    Source[T]
	mirror *Signal[T]

	interval time.Duration
	clock    clockz.Clock

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewPoller creates a Poller over src. The mirror starts at src.Get().
func NewPoller[T comparable](src Source[T], opts ...PollOption) *Poller[T] {
	cfg := pollConfig{
		interval: DefaultPollInterval,
		clock:    clockz.RealClock,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Poller[T]{
		src:      src,
		mirror:   NewSignal(src.Get()),
		interval: cfg.interval,
		clock:    cfg.clock,
	}
}

// Get reads the source directly.
func (p *Poller[T]) Get() T {
	return p.src.Get()
}

// Set writes through to the source and reports the change.
func (p *Poller[T]) Set(v T) {
	p.src.Set(v)
	p.mirror.Set(v)
}

// Subscribe registers fn for every reported change.
func (p *Poller[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	return p.mirror.Subscribe(fn)
}

// Poll compares the source against the last reported value and reports a
// change if they differ. It returns true if a change was reported.
func (p *Poller[T]) Poll() bool {
	current := p.src.Get()
	if current == p.mirror.Get() {
		return false
	}
	p.mirror.Set(current)
	return true
}

// Interval returns the polling interval.
func (p *Poller[T]) Interval() time.Duration {
	return p.interval
}

// Start begins polling in a background goroutine until ctx is cancelled or
// Stop is called. Calling Start on a running Poller is a no-op.
func (p *Poller[T]) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true

	timer := p.clock.NewTimer(p.interval)
	go p.loop(ctx, timer, p.done)
}

func (p *Poller[T]) loop(ctx context.Context, timer clockz.Timer, done chan struct{}) {
	defer close(done)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C():
			p.Poll()
			timer.Reset(p.interval)
		}
	}
}

// Stop ends the polling loop and waits for it to exit.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	cancel, done := p.cancel, p.done
	p.running = false
	p.mu.Unlock()

	cancel()
	<-done
}
