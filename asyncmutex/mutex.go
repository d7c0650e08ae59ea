package asyncmutex

import "sync"

// Mutex is an asynchronous mutual-exclusion lock. The zero value is not
// usable; use New. Mutex is not reentrant: acquiring it again from the
// holder of the current Release will deadlock, same as sync.Mutex.
type Mutex struct {
	mu        sync.Mutex
	signalled bool
	waiters   []chan struct{}
}

// New constructs an unheld Mutex.
func New() *Mutex {
	return &Mutex{signalled: true}
}

// Release is a single-use capability that releases the Mutex acquisition
// that produced it. Calling Release more than once is a no-op after the
// first call.
type Release struct {
	mu   *Mutex
	once sync.Once
}

// Acquire suspends until the Mutex is free, then returns a Release owning
// that acquisition. Every acquisition must eventually call Release.Release
// exactly once (further calls are no-ops) to hand the Mutex to the next
// waiter, or back to the free state if there is none.
func (x *Mutex) Acquire() *Release {
	x.mu.Lock()
	if x.signalled {
		x.signalled = false
		x.mu.Unlock()
		return &Release{mu: x}
	}

	ch := make(chan struct{})
	x.waiters = append(x.waiters, ch)
	x.mu.Unlock()

	<-ch

	return &Release{mu: x}
}

// Release releases the Mutex acquisition this handle owns. It is a no-op on
// any call after the first.
func (x *Release) Release() {
	x.once.Do(func() {
		m := x.mu
		m.mu.Lock()
		if len(m.waiters) != 0 {
			ch := m.waiters[0]
			m.waiters = m.waiters[1:]
			m.mu.Unlock()
			close(ch)
			return
		}
		m.signalled = true
		m.mu.Unlock()
	})
}
