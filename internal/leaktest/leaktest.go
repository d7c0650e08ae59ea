// Package leaktest provides a goroutine-count-based leak check for tests of
// components that own background goroutines (poller, sidejob, taskqueue).
//
// The pattern is grounded on the checkNumGoroutines(timeout)(t) idiom used
// throughout microbatch's test suite: snapshot the count before the test
// body runs, then poll runtime.NumGoroutine until it settles back down (or
// the timeout elapses), at the deferred call site.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

// Check snapshots the current goroutine count and returns a func that,
// called with the *testing.T at defer-time, polls until the count is back
// at or below the snapshot or timeout elapses.
//
//	defer leaktest.Check(timeout)(t)
func Check(timeout time.Duration) func(t *testing.T) {
	before := runtime.NumGoroutine()
	return func(t *testing.T) {
		t.Helper()
		deadline := time.Now().Add(timeout)
		for {
			after := runtime.NumGoroutine()
			if after <= before {
				return
			}
			if time.Now().After(deadline) {
				t.Errorf(`leaktest: goroutine count grew from %d to %d and did not settle within %s`, before, after, timeout)
				return
			}
			time.Sleep(time.Millisecond)
		}
	}
}
