// Package gate implements two single-bit asynchronous signalling
// primitives: ManualGate (manual-reset event) and AutoGate (auto-reset
// event).
//
// ManualGate's Wait calls all observe the same completion cell until Reset
// swaps in a fresh one; any waiter that already holds a reference to the
// pre-reset cell keeps observing the open state it woke on, so a Reset can
// never retroactively "un-open" a gate for an already-woken waiter.
//
// AutoGate instead maintains a FIFO queue of waiters plus a single pending
// signal: Set either wakes exactly one queued waiter or, if none are
// queued, leaves the gate signalled for the next Wait call to consume.
package gate
