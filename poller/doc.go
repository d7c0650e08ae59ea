// Package poller implements a periodic runner: it invokes a callback
// repeatedly, with a fixed interval between the end of one invocation and
// the start of the next (not between starts), until its parent context is
// done.
package poller
