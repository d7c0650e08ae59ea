package gate

import (
	"sync"
	"testing"
	"time"

	"github.com/joeycumines/asyncutil/internal/leaktest"
)

func TestManualGate_initiallyClosed(t *testing.T) {
	defer leaktest.Check(time.Second)(t)

	g := NewManualGate(false)
	done := make(chan struct{})
	go func() {
		g.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal(`Wait returned before Set`)
	case <-time.After(20 * time.Millisecond):
	}

	g.Set()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal(`Wait did not return after Set`)
	}
}

func TestManualGate_initiallyOpen(t *testing.T) {
	defer leaktest.Check(time.Second)(t)

	g := NewManualGate(true)
	g.Wait() // must return immediately
}

func TestManualGate_setIsIdempotent(t *testing.T) {
	defer leaktest.Check(time.Second)(t)

	g := NewManualGate(false)
	g.Set()
	g.Set()
	g.Wait()
}

// TestManualGate_resetDoesNotRetroactivelyCloseWokenWaiters verifies the
// key invariant: a waiter that has already observed Open via Wait is never
// affected by a subsequent Reset.
func TestManualGate_resetDoesNotRetroactivelyCloseWokenWaiters(t *testing.T) {
	defer leaktest.Check(time.Second)(t)

	g := NewManualGate(false)
	g.Set()
	g.Wait() // woken, observing the open cell directly

	g.Reset() // must not affect the Wait call that already returned

	// a fresh Wait after Reset must block until the next Set
	done := make(chan struct{})
	go func() {
		g.Wait()
		close(done)
	}()
	select {
	case <-done:
		t.Fatal(`Wait returned despite Reset`)
	case <-time.After(20 * time.Millisecond):
	}
	g.Set()
	<-done
}

func TestManualGate_resetOnClosedIsNoOp(t *testing.T) {
	defer leaktest.Check(time.Second)(t)

	g := NewManualGate(false)
	g.Reset()
	g.Reset()

	done := make(chan struct{})
	go func() {
		g.Wait()
		close(done)
	}()
	select {
	case <-done:
		t.Fatal(`Wait returned without a Set`)
	case <-time.After(20 * time.Millisecond):
	}
	g.Set()
	<-done
}

func TestManualGate_concurrentResetsConverge(t *testing.T) {
	defer leaktest.Check(time.Second)(t)

	g := NewManualGate(true)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Reset()
		}()
	}
	wg.Wait()

	done := make(chan struct{})
	go func() {
		g.Wait()
		close(done)
	}()
	select {
	case <-done:
		t.Fatal(`gate should be closed after concurrent resets`)
	case <-time.After(20 * time.Millisecond):
	}
	g.Set()
	<-done
}

// TestManualGate_allWaitersReleasedTogether is property: ManualGate gives
// no ordering among waiters - a single Set releases every current waiter.
func TestManualGate_allWaitersReleasedTogether(t *testing.T) {
	defer leaktest.Check(time.Second)(t)

	g := NewManualGate(false)
	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			g.Wait()
		}()
	}

	time.Sleep(20 * time.Millisecond)
	g.Set()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal(`not all waiters released by a single Set`)
	}
}
