package gate

import "sync"

// AutoGate is an auto-reset event: Set releases exactly one waiter, FIFO;
// if no one is waiting, the gate holds a single pending signal for the
// next Wait call to consume, after which it is closed again.
type AutoGate struct {
	mu        sync.Mutex
	signalled bool
	waiters   []chan struct{}
}

// NewAutoGate constructs an AutoGate, initially signalled if initialOpen.
func NewAutoGate(initialOpen bool) *AutoGate {
	return &AutoGate{signalled: initialOpen}
}

// Wait suspends until the gate is signalled, either by a pending Set or a
// future one; consumes at most one signal.
func (x *AutoGate) Wait() {
	x.mu.Lock()
	if x.signalled {
		x.signalled = false
		x.mu.Unlock()
		return
	}

	ch := make(chan struct{})
	x.waiters = append(x.waiters, ch)
	x.mu.Unlock()

	<-ch
}

// Set releases exactly one waiter if any are queued (FIFO); otherwise
// leaves the gate signalled for the next Wait call.
func (x *AutoGate) Set() {
	x.mu.Lock()
	if len(x.waiters) != 0 {
		ch := x.waiters[0]
		x.waiters = x.waiters[1:]
		x.mu.Unlock()
		close(ch)
		return
	}
	x.signalled = true
	x.mu.Unlock()
}
