// Package sidejob implements a coalescing deferred executor: a job that
// merges many concurrent Wake/Delay requests into a single pending
// invocation, using one atomic "schedule slot" encoding five logical
// states (idle, scheduled-at-time-T, run-immediately, running,
// running-with-pending-reschedule) so every state transition is a single
// compare-and-swap.
package sidejob
