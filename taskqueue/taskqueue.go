package taskqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joeycumines/asyncutil/delay"
	"github.com/joeycumines/asyncutil/internal/fault"
)

// ErrInvalidArgument is returned by New when max_workers < 1.
var ErrInvalidArgument = errors.New(`taskqueue: invalid argument`)

// Callback is invoked once per dequeued item. Its ctx is the Pool's parent
// context, passed through so the callback can observe cancellation itself
// rather than being forcibly aborted.
type Callback[T any] func(ctx context.Context, item T) error

// Pool is a bounded worker pool draining a concurrent FIFO. The zero value
// is not usable; use New.
type Pool[T any] struct {
	callback   Callback[T]
	maxWorkers int
	interval   time.Duration
	parent     context.Context
	d          *delay.Delay
	failure    fault.Box

	mu    sync.Mutex
	queue []T

	queued    atomic.Int64
	inFlight  atomic.Int64
	cancelled atomic.Bool
}

// New constructs a Pool. A nil parent is treated as context.Background.
// interval is an optional delay applied between the end of one item's
// callback and the start of the next; it is only meaningful when
// maxWorkers == 1 and is otherwise ignored, since with more than one
// worker there is no single "next item" to delay. New returns
// ErrInvalidArgument if maxWorkers < 1.
func New[T any](callback Callback[T], maxWorkers int, interval time.Duration, parent context.Context) (*Pool[T], error) {
	if callback == nil {
		panic(`taskqueue: nil callback`)
	}
	if maxWorkers < 1 {
		return nil, ErrInvalidArgument
	}
	if parent == nil {
		parent = context.Background()
	}
	return &Pool[T]{
		callback:   callback,
		maxWorkers: maxWorkers,
		interval:   interval,
		parent:     parent,
		d:          delay.New(parent),
	}, nil
}

// OnUnhandledFailure installs a hook invoked whenever Callback returns an
// error (or panics) that nothing else has handled. hook may be nil to clear
// any installed hook.
func (x *Pool[T]) OnUnhandledFailure(hook fault.Hook) {
	x.failure.Set(hook)
}

// Enqueue appends item to the FIFO and prods the pool to drain it. A
// cancelled parent causes Enqueue to refuse the item; work already queued
// or in flight is unaffected and continues draining.
func (x *Pool[T]) Enqueue(item T) {
	x.EnqueueBatch([]T{item})
}

// EnqueueBatch appends items to the FIFO in order and prods the pool once.
// Equivalent to, but cheaper than, calling Enqueue for each item.
func (x *Pool[T]) EnqueueBatch(items []T) {
	if len(items) == 0 {
		return
	}
	if x.parent.Err() != nil {
		x.cancelled.Store(true)
		return
	}
	x.mu.Lock()
	x.queue = append(x.queue, items...)
	x.mu.Unlock()
	x.queued.Add(int64(len(items)))
	x.prod()
}

// prod spawns workers while in_flight < max_workers and the queue is
// non-empty, using compare-then-increment on in_flight to guard against a
// TOCTOU race that could otherwise push in_flight above max_workers.
func (x *Pool[T]) prod() {
	for {
		x.mu.Lock()
		empty := len(x.queue) == 0
		x.mu.Unlock()
		if empty {
			return
		}

		n := x.inFlight.Add(1)
		if n > int64(x.maxWorkers) {
			x.inFlight.Add(-1)
			return
		}
		go x.work()
	}
}

// work dequeues and processes exactly one item, then decrements in_flight
// and re-prods so the next eligible worker (if any) can start.
func (x *Pool[T]) work() {
	defer func() {
		x.inFlight.Add(-1)
		x.prod()
	}()

	x.mu.Lock()
	if len(x.queue) == 0 {
		x.mu.Unlock()
		return // raced with another worker; nothing left to claim
	}
	item := x.queue[0]
	x.queue = x.queue[1:]
	x.mu.Unlock()
	x.queued.Add(-1)

	err := x.safeCallback(item)
	if err != nil {
		x.failure.Report(err)
	}

	if x.maxWorkers == 1 && x.interval > 0 {
		if err := x.d.Wait(x.interval); err != nil {
			x.cancelled.Store(true)
		}
	}
}

func (x *Pool[T]) safeCallback(item T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf(`taskqueue: callback panic: %v`, r)
		}
	}()
	return x.callback(x.parent, item)
}

// Count reports the number of items queued but not yet dequeued by a
// worker. Best-effort observable, not a synchronisation point.
func (x *Pool[T]) Count() int64 { return x.queued.Load() }

// IsActive reports whether the pool has queued or in-flight work.
// Best-effort observable, not a synchronisation point.
func (x *Pool[T]) IsActive() bool {
	return x.queued.Load() > 0 || x.inFlight.Load() > 0
}

// IsCancelled reports whether the parent context has been observed as
// done by this Pool.
func (x *Pool[T]) IsCancelled() bool { return x.cancelled.Load() }

// Stats is a point-in-time snapshot of Pool's observable counters.
type Stats struct {
	Queued     int64
	InFlight   int64
	MaxWorkers int
}

// Stats returns a point-in-time snapshot of the pool's counters. Like the
// individual observables it bundles, it is best-effort, not a consistent
// transaction across the three fields.
func (x *Pool[T]) Stats() Stats {
	return Stats{
		Queued:     x.queued.Load(),
		InFlight:   x.inFlight.Load(),
		MaxWorkers: x.maxWorkers,
	}
}
