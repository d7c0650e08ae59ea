package delay

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/joeycumines/asyncutil/internal/leaktest"
)

func TestDelay_Wait_lowerBound(t *testing.T) {
	defer leaktest.Check(time.Second)(t)

	d := New(nil)
	start := time.Now()
	if err := d.Wait(20 * time.Millisecond); err != nil {
		t.Fatalf(`unexpected error: %v`, err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf(`returned early: %s`, elapsed)
	}
}

func TestDelay_Cancel_wakesWaiters(t *testing.T) {
	defer leaktest.Check(time.Second)(t)

	d := New(nil)

	done := make(chan error, 1)
	go func() {
		done <- d.Wait(time.Second)
	}()

	time.Sleep(10 * time.Millisecond)
	d.Cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf(`unexpected error from cancelled wait: %v`, err)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal(`Wait did not wake within 100ms of Cancel`)
	}
}

func TestDelay_Cancel_doesNotAffectSubsequentWaits(t *testing.T) {
	defer leaktest.Check(time.Second)(t)

	d := New(nil)
	d.Cancel() // no waiters yet - should be a harmless no-op

	start := time.Now()
	if err := d.Wait(20 * time.Millisecond); err != nil {
		t.Fatalf(`unexpected error: %v`, err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf(`a prior Cancel collaterally woke a later Wait: %s`, elapsed)
	}
}

func TestDelay_ParentCancel_surfacesErrCancelled(t *testing.T) {
	defer leaktest.Check(time.Second)(t)

	ctx, cancel := context.WithCancel(context.Background())
	d := New(ctx)

	done := make(chan error, 1)
	start := time.Now()
	go func() {
		done <- d.Wait(time.Second)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != ErrCancelled {
			t.Fatalf(`want ErrCancelled, got %v`, err)
		}
		if elapsed := time.Since(start); elapsed < 75*time.Millisecond || elapsed > 200*time.Millisecond {
			t.Fatalf(`unexpected elapsed time for parent cancellation: %s`, elapsed)
		}
	case <-time.After(time.Second):
		t.Fatal(`Wait did not observe parent cancellation`)
	}
}

func TestDelay_ParentCancel_noOpCancel(t *testing.T) {
	defer leaktest.Check(time.Second)(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := New(ctx)
	d.Cancel() // parent already done - must be a no-op, not a panic

	if err := d.Wait(time.Millisecond); err != ErrCancelled {
		t.Fatalf(`want ErrCancelled, got %v`, err)
	}
}

// TestDelay_concurrentCancelLiveness is S3: many concurrent 1s waits, raced
// against a continuously cancelling goroutine. Every individual Wait call
// must return within a small bounded time of a Cancel, never observing the
// full second.
func TestDelay_concurrentCancelLiveness(t *testing.T) {
	defer leaktest.Check(2 * time.Second)(t)

	d := New(nil)

	stop := make(chan struct{})
	var cancelWG sync.WaitGroup
	cancelWG.Add(1)
	go func() {
		defer cancelWG.Done()
		for {
			select {
			case <-stop:
				return
			default:
				d.Cancel()
				time.Sleep(time.Millisecond)
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				start := time.Now()
				if err := d.Wait(time.Second); err != nil {
					t.Errorf(`unexpected error: %v`, err)
				}
				if elapsed := time.Since(start); elapsed >= time.Second {
					t.Errorf(`wait observed full duration despite concurrent cancels: %s`, elapsed)
				}
			}
		}()
	}

	wg.Wait()
	close(stop)
	cancelWG.Wait()
}
