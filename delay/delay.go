package delay

import (
	"context"
	"errors"
	"time"

	"sync/atomic"

	"github.com/joeycumines/asyncutil/internal/clock"
)

// ErrCancelled is returned by Wait when the parent context passed to New is
// done. It is never returned for a local Cancel call; that wakes Wait
// without an error, as an implementation detail the caller shouldn't need
// to distinguish from "the duration elapsed".
var ErrCancelled = errors.New(`delay: cancelled`)

type source struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// Delay is a cancellable delay source. The zero value is not usable; use
// New. A Delay is safe for concurrent use: many goroutines may call Wait
// and Cancel concurrently.
type Delay struct {
	parent context.Context
	src    atomic.Pointer[source]
}

// New constructs a Delay linked to parent. A nil parent is treated as
// context.Background (never triggers). When parent is later done, every
// in-progress and future Wait call surfaces ErrCancelled.
func New(parent context.Context) *Delay {
	if parent == nil {
		parent = context.Background()
	}
	d := &Delay{parent: parent}
	d.src.Store(newSource(parent))
	return d
}

func newSource(parent context.Context) *source {
	ctx, cancel := context.WithCancel(parent)
	return &source{ctx: ctx, cancel: cancel}
}

// Wait suspends the caller for at least d, returning earlier if Cancel is
// called (nil error) or if the parent context passed to New becomes done
// (ErrCancelled).
func (x *Delay) Wait(d time.Duration) error {
	s := x.src.Load()

	timer := clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil

	case <-s.ctx.Done():
		if x.parent.Err() != nil {
			return ErrCancelled
		}
		// local wake via Cancel - not a fault, swallow it
		return nil
	}
}

// Cancel wakes every Wait call currently in progress, and leaves the Delay
// ready to accept new Wait calls unaffected by this call. It is a no-op if
// the parent context is already done.
func (x *Delay) Cancel() {
	if x.parent.Err() != nil {
		return
	}

	old := x.src.Load()
	next := newSource(x.parent)

	if x.src.CompareAndSwap(old, next) {
		old.cancel()
		return
	}

	// lost the race to another concurrent Cancel - its swap already woke
	// old's waiters, so our intent is satisfied transitively. release the
	// unused source we just constructed.
	next.cancel()
}
