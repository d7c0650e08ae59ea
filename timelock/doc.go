// Package timelock implements a time-bounded exclusive lock backed by a
// single atomic monotonic deadline, with no queueing: a losing Obtain call
// simply returns false rather than blocking or retrying.
package timelock
