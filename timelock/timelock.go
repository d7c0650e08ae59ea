package timelock

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/joeycumines/asyncutil/internal/clock"
)

// ErrInvalidArgument is returned by New when duration is negative.
var ErrInvalidArgument = errors.New(`timelock: invalid argument`)

// Lock is a time-bounded exclusive lock: Obtain succeeds at most once per
// LockDuration, with no queueing. A losing caller just gets false back; it
// is the caller's job to decide whether and when to retry.
type Lock struct {
	duration time.Duration
	next     atomic.Int64 // next_available, in ticks; 0 means never held or released
}

// New constructs a Lock that, once obtained, stays held for duration.
// A negative duration is rejected with ErrInvalidArgument; zero is valid,
// and causes every Obtain call that wins its CAS to succeed again
// immediately on the next call.
func New(duration time.Duration) (*Lock, error) {
	if duration < 0 {
		return nil, ErrInvalidArgument
	}
	return &Lock{duration: duration}, nil
}

// LockDuration returns the duration passed to New.
func (x *Lock) LockDuration() time.Duration {
	return x.duration
}

// Obtain returns true and holds the lock for LockDuration if no unexpired
// lock currently exists; false otherwise. It never blocks.
func (x *Lock) Obtain() bool {
	now := clock.TickNow()
	a := x.next.Load()
	if now < a {
		return false
	}
	return x.next.CompareAndSwap(a, now+int64(x.duration))
}

// Release unconditionally clears the deadline, making the lock immediately
// obtainable regardless of how much of LockDuration remains.
func (x *Lock) Release() {
	x.next.Store(0)
}
