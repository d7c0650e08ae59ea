// Package delay implements a cancellable delay: a way to wait for a
// duration that can be woken early, repeatedly, by a local Cancel call,
// without ever confusing a local wake with the delay's parent context being
// done.
//
// The core trick is that the "current wait source" is a single atomically
// swapped pointer. Cancel swaps it for a fresh one and fires the old one;
// any Wait call already in flight on the old source wakes, and any Wait
// call that starts after the swap waits on the fresh one, so a cancel can
// never collaterally cancel a delay that started after it.
package delay
