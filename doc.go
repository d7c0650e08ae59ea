// Package asyncutil is an umbrella for a small set of independent
// asynchronous coordination primitives, each in its own subpackage:
//
//   - delay: a cancellable delay, the building block the timed
//     primitives below schedule themselves on.
//   - timelock: a non-blocking rate-limiting lock with a fixed cooldown.
//   - asyncmutex: a FIFO-fair async mutex with a single-use release
//     handle.
//   - gate: ManualGate (latch, explicit reset) and AutoGate (one signal
//     per waiter).
//   - poller: a periodic runner with a fixed inter-invocation interval.
//   - sidejob: a coalescing deferred executor — many concurrent
//     wake/delay requests merge into one pending invocation.
//   - taskqueue: a bounded worker pool draining a concurrent FIFO.
//
// None of these primitives manage their own goroutines' lifetimes beyond
// what each doc comment states; they spawn work onto the Go runtime
// scheduler but assume nothing about thread identity, matching a
// cooperative-suspension model on top of an external scheduler.
package asyncutil
