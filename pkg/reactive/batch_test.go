package reactive

import (
	"reflect"
	"testing"
	"time"
)

func TestBatchDefersDelivery(t *testing.T) {
	first := NewSignal("")
	last := NewSignal("")
	var log []string
	first.Subscribe(func(v string) { log = append(log, "first="+v) })
	last.Subscribe(func(v string) { log = append(log, "last="+v) })

	Batch(func() {
		first.Set("Ada")
		last.Set("Lovelace")
		if len(log) != 0 {
			t.Errorf("no delivery expected inside batch, got %v", log)
		}
	})

	want := []string{"first=Ada", "last=Lovelace"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("deliveries = %v, want %v", log, want)
	}
}

func TestBatchDoesNotCoalesce(t *testing.T) {
	s := NewSignal(0)
	var got []int
	s.Subscribe(func(v int) { got = append(got, v) })

	Tx(func() {
		s.Set(1)
		s.Set(2)
	})

	if want := []int{1, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("deliveries = %v, want %v", got, want)
	}
}

func TestNestedBatch(t *testing.T) {
	s := NewSignal(0)
	calls := 0
	s.Subscribe(func(int) { calls++ })

	Batch(func() {
		Batch(func() {
			s.Set(1)
		})
		if calls != 0 {
			t.Errorf("inner batch should not drain, got %d calls", calls)
		}
		s.Set(2)
	})

	if calls != 2 {
		t.Errorf("expected 2 calls after outer batch, got %d", calls)
	}
}

func TestTxNamed(t *testing.T) {
	old := DebugMode
	DebugMode = true
	defer func() { DebugMode = old }()

	s := NewSignal(0)
	calls := 0
	s.Subscribe(func(int) { calls++ })

	TxNamed("increment", func() { s.Set(1) })
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestBatchInsideDelivery(t *testing.T) {
	a := NewSignal(0)
	b := NewSignal(0)
	var log []string

	a.Subscribe(func(v int) {
		Batch(func() { b.Set(v) })
		log = append(log, "a")
	})
	b.Subscribe(func(int) { log = append(log, "b") })

	a.Set(1)

	if want := []string{"a", "b"}; !reflect.DeepEqual(log, want) {
		t.Errorf("order = %v, want %v", log, want)
	}
}

// A write on one goroutine is delivered before it returns, even while
// another goroutine is blocked inside a delivery.
func TestDeliveryIsPerGoroutine(t *testing.T) {
	a := NewSignal(0)
	b := NewSignal(0)

	entered := make(chan struct{})
	release := make(chan struct{})
	a.Subscribe(func(int) {
		close(entered)
		<-release
	})

	var bGoroutine, aGoroutine uint64
	bCalls := 0
	b.Subscribe(func(int) {
		bCalls++
		bGoroutine = goroutineID()
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		aGoroutine = goroutineID()
		a.Set(1)
	}()
	<-entered

	b.Set(1)
	if bCalls != 1 {
		t.Errorf("b deliveries = %d, want 1 before Set returns", bCalls)
	}
	if bGoroutine != goroutineID() {
		t.Errorf("b delivered on goroutine %d, want the writer %d", bGoroutine, goroutineID())
	}
	if Flushing() {
		t.Errorf("writer goroutine should be idle")
	}

	close(release)
	<-done
	if bGoroutine == aGoroutine {
		t.Errorf("b should not have been delivered on the blocked goroutine")
	}
	if bCalls != 1 {
		t.Errorf("b deliveries = %d after release, want 1", bCalls)
	}
}

// Two goroutines each write while the other is inside a delivery.
func TestCrossedWritesOnTwoGoroutines(t *testing.T) {
	a := NewSignal(0)
	b := NewSignal(0)
	c := NewSignal(0)

	aIn := make(chan struct{})
	bIn := make(chan struct{})
	cIn := make(chan struct{})
	errs := make(chan string, 3)

	var g1, g2, gb, gc uint64
	a.Subscribe(func(int) {
		close(aIn)
		select {
		case <-bIn:
		case <-time.After(2 * time.Second):
			errs <- "b was not delivered while a's subscriber ran"
		}
	})
	b.Subscribe(func(int) {
		gb = goroutineID()
		close(bIn)
		select {
		case <-cIn:
		case <-time.After(2 * time.Second):
			errs <- "c was not delivered while b's subscriber ran"
		}
	})
	c.Subscribe(func(int) {
		gc = goroutineID()
		close(cIn)
	})

	g1Done := make(chan struct{})
	g2Done := make(chan struct{})
	go func() {
		defer close(g1Done)
		g1 = goroutineID()
		a.Set(1)
		c.Set(1)
	}()
	go func() {
		defer close(g2Done)
		g2 = goroutineID()
		<-aIn
		b.Set(1)
	}()
	<-g1Done
	<-g2Done
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}
	if gb != g2 {
		t.Errorf("b delivered on goroutine %d, want its writer %d", gb, g2)
	}
	if gc != g1 {
		t.Errorf("c delivered on goroutine %d, want its writer %d", gc, g1)
	}
}

func TestDispatcherReleasedWhenIdle(t *testing.T) {
	s := NewSignal(0)
	s.Subscribe(func(int) {})

	Batch(func() { s.Set(1) })
	s.Set(2)

	if _, ok := dispatchers.Load(goroutineID()); ok {
		t.Errorf("idle goroutine should not keep a dispatcher")
	}
}
