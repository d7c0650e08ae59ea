// Package clock provides the monotonic tick representation shared by the
// CAS-based state machines in this module (delay, timelock, sidejob), plus
// an injectable time seam for deterministic tests.
//
// The seam mirrors catrate's timeNow/timeNewTicker package variables: tests
// in this process replace Now/NewTimer directly rather than threading a
// Clock interface through every constructor.
package clock

import "time"

// Now returns the current time. Tests may replace this.
var Now = time.Now

// NewTimer constructs a timer firing after d. Tests may replace this.
var NewTimer = time.NewTimer

// epoch anchors Tick: its wall-clock UnixNano is the base, and offsets from
// it are measured with the monotonic clock reading.
var epoch = time.Now()

// Tick converts a time.Time into the int64 tick representation used by the
// atomic schedule slots in timelock and sidejob. Ticks are monotonic
// UnixNano values: real tick counts (nanoseconds since the Unix epoch) sit
// many orders of magnitude below the sentinel values reserved in sidejob,
// so comparisons between a real tick and a sentinel never collide. For
// times carrying a monotonic clock reading (such as those from time.Now), a
// wall-clock step does not move ticks backwards.
func Tick(t time.Time) int64 {
	return epoch.UnixNano() + int64(t.Sub(epoch))
}

// TickNow is a convenience for Tick(Now()).
func TickNow() int64 {
	return Tick(Now())
}
