package sidejob

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/joeycumines/asyncutil/delay"
	"github.com/joeycumines/asyncutil/internal/clock"
	"github.com/joeycumines/asyncutil/internal/fault"
)

// Callback is invoked at most once per coalesced run. Its ctx is the Job's
// parent context, passed through so the callback can observe cancellation
// itself rather than being forcibly aborted.
type Callback func(ctx context.Context) error

// Schedule-slot sentinels. Real scheduled-time values are ticks from
// internal/clock (nanoseconds since the Unix epoch), which for the
// foreseeable future sit many orders of magnitude below these, so a plain
// numeric comparison against "now" is always safe for any value that isn't
// one of the three sentinels below.
const (
	stateIdle              int64 = 0
	stateRunImmediate      int64 = math.MaxInt64 - 2
	stateRunningReschedule int64 = math.MaxInt64 - 1
	stateRunning           int64 = math.MaxInt64
)

// Job is a coalescing deferred executor: concurrent Wake/Delay requests
// merge into at most one pending invocation of Callback. The zero value is
// not usable; use New.
type Job struct {
	callback Callback
	interval time.Duration
	parent   context.Context
	d        *delay.Delay
	failure  fault.Box

	slot atomic.Int64

	busy      atomic.Bool
	cancelled atomic.Bool
	completed atomic.Bool
	lastRun   atomic.Int64
}

// New constructs a Job. A nil parent is treated as context.Background.
// interval is the default delay used by Delay (with no argument) and the
// delay re-armed automatically after a wake/delay observed mid-run.
func New(callback Callback, interval time.Duration, parent context.Context) *Job {
	if callback == nil {
		panic(`sidejob: nil callback`)
	}
	if parent == nil {
		parent = context.Background()
	}
	return &Job{
		callback: callback,
		interval: interval,
		parent:   parent,
		d:        delay.New(parent),
	}
}

// OnUnhandledFailure installs a hook invoked whenever Callback returns an
// error (or panics) that nothing else has handled. hook may be nil to clear
// any installed hook.
func (x *Job) OnUnhandledFailure(hook fault.Hook) {
	x.failure.Set(hook)
}

// Wake requests an immediate run, overriding any pending Delay. If the job
// is idle, a run starts now. If a run is already scheduled for later, that
// schedule is promoted to immediate. If a run is in flight, exactly one
// further run follows once it completes. A cancelled parent causes Wake to
// be a no-op.
func (x *Job) Wake() {
	if x.refuseIfCancelled() {
		return
	}
	for {
		s := x.slot.Load()
		switch {
		case s == stateIdle:
			if x.slot.CompareAndSwap(s, stateRunImmediate) {
				go x.awaitAndDispatch()
				return
			}
		case s == stateRunImmediate, s == stateRunningReschedule:
			return
		case s == stateRunning:
			if x.slot.CompareAndSwap(s, stateRunningReschedule) {
				return
			}
		default: // scheduled(t)
			if x.slot.CompareAndSwap(s, stateRunImmediate) {
				x.d.Cancel() // wakes the goroutine waiting on the schedule, so it re-checks the slot promptly
				return
			}
		}
	}
}

// Delay requests "run once, no earlier than now + interval", using the
// Job's configured interval. Repeated calls extend the pending schedule
// to whichever request asks to wait the longest; a call that would pull
// the schedule earlier is a no-op, since the later request dominates.
func (x *Job) Delay() {
	x.delay(x.interval)
}

// DelayFor is Delay with an explicit duration in place of the Job's
// configured interval.
func (x *Job) DelayFor(d time.Duration) {
	x.delay(d)
}

func (x *Job) delay(d time.Duration) {
	if x.refuseIfCancelled() {
		return
	}
	newT := clock.TickNow() + int64(d)
	for {
		s := x.slot.Load()
		switch {
		case s == stateIdle:
			if x.slot.CompareAndSwap(s, newT) {
				go x.awaitAndDispatch()
				return
			}
		case s == stateRunImmediate, s == stateRunningReschedule:
			return // a stronger request is already pending
		case s == stateRunning:
			if x.slot.CompareAndSwap(s, stateRunningReschedule) {
				return
			}
		default: // scheduled(t)
			if s > newT {
				return // the existing, later schedule dominates
			}
			if x.slot.CompareAndSwap(s, newT) {
				return // the waiting goroutine's reschedule loop picks up the later target
			}
		}
	}
}

func (x *Job) refuseIfCancelled() bool {
	if x.parent.Err() == nil {
		return false
	}
	x.cancelled.Store(true)
	if x.slot.Load() == stateIdle {
		x.completed.Store(true)
	}
	return true
}

// tryEnterRunState attempts to claim the right to run now. ok is false when
// there is nothing to do: either the slot was already idle, or it was
// running/running-reschedule, which is a duplicate dispatch and an
// implementation invariant violation given at most one scheduling goroutine
// is ever live at a time. When ok is true and proceed is false, the slot is
// scheduled for a real time still in the future (a spurious early wake);
// waitUntilTick names the tick to wait for before trying again.
func (x *Job) tryEnterRunState() (proceed bool, waitUntilTick int64, ok bool) {
	for {
		s := x.slot.Load()
		switch {
		case s == stateRunning, s == stateRunningReschedule:
			return false, 0, false
		case s == stateIdle:
			return false, 0, false
		case s == stateRunImmediate:
			if x.slot.CompareAndSwap(s, stateRunning) {
				return true, 0, true
			}
		default: // scheduled(t)
			now := clock.TickNow()
			if s > now {
				return false, s, true
			}
			if x.slot.CompareAndSwap(s, stateRunning) {
				return true, 0, true
			}
		}
	}
}

func (x *Job) awaitAndDispatch() {
	for {
		proceed, waitUntil, ok := x.tryEnterRunState()
		if !ok {
			return
		}
		if proceed {
			x.runCallback()
			return
		}
		d := time.Duration(waitUntil - clock.TickNow())
		if d < 0 {
			d = 0
		}
		if err := x.d.Wait(d); err != nil {
			x.cancelled.Store(true)
			x.completed.Store(true)
			return
		}
	}
}

func (x *Job) runCallback() {
	x.busy.Store(true)
	err := x.safeCallback()
	x.busy.Store(false)
	x.lastRun.Store(clock.TickNow())
	if err != nil {
		x.failure.Report(err)
	}
	x.exitRunState()
}

func (x *Job) safeCallback() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf(`sidejob: callback panic: %v`, r)
		}
	}()
	return x.callback(x.parent)
}

func (x *Job) exitRunState() {
	for {
		s := x.slot.Load()
		switch s {
		case stateRunning:
			if x.slot.CompareAndSwap(s, stateIdle) {
				return
			}
		case stateRunningReschedule:
			if x.slot.CompareAndSwap(s, stateIdle) {
				x.Delay()
				return
			}
		default:
			return
		}
	}
}

// IsBusy reports whether Callback is currently executing. Best-effort
// observable, not a synchronisation point.
func (x *Job) IsBusy() bool { return x.busy.Load() }

// IsCancelled reports whether the parent context has been observed as
// done by this Job.
func (x *Job) IsCancelled() bool { return x.cancelled.Load() }

// IsCompleted reports whether the Job has settled into a state where no
// further invocation will ever occur: the parent was cancelled and there
// is no pending schedule, in-flight run, or queued reschedule. Like
// IsCancelled, it is set only once a Wake/Delay call (while the slot is
// idle) or the goroutine waiting on a schedule observes the cancelled
// parent; until then it reports false.
func (x *Job) IsCompleted() bool { return x.completed.Load() }

// LastRunAt returns the time of the most recently completed invocation of
// Callback, and whether one has happened at all.
func (x *Job) LastRunAt() (time.Time, bool) {
	v := x.lastRun.Load()
	if v == 0 {
		return time.Time{}, false
	}
	return time.Unix(0, v), true
}
