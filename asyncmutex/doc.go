// Package asyncmutex implements a FIFO, non-reentrant mutual-exclusion
// primitive whose Acquire suspends (rather than blocking an OS thread while
// idle) when the mutex is already held, and whose Release hands ownership
// directly to the head of the waiter queue.
package asyncmutex
