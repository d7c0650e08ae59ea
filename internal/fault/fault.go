// Package fault holds the unhandled-failure hook plumbing shared by poller,
// sidejob and taskqueue. It replaces the exception-event-argument-carrier
// pattern (an object with a mutable Handled field) with a plain callback
// slot, per spec.md's design note on the event-plus-mutable-flag pattern:
// the hook itself reports whether it handled the failure, by return value.
package fault

import "sync/atomic"

// Hook is invoked with a callback failure. Returning true suppresses
// propagation; returning false means the failure is silently dropped by the
// caller (the owning primitive's loop always continues regardless).
type Hook func(err error) (handled bool)

// Box holds a single, swappable Hook. The zero value has no hook installed.
type Box struct {
	hook atomic.Pointer[Hook]
}

// Set installs h as the current hook. A nil h clears it.
func (b *Box) Set(h Hook) {
	if h == nil {
		b.hook.Store(nil)
		return
	}
	b.hook.Store(&h)
}

// Report delivers err to the installed hook, if any, and returns whether it
// was handled. A Box with no installed hook reports every failure as
// unhandled, matching spec.md §7: "if unhandled they are swallowed".
func (b *Box) Report(err error) (handled bool) {
	if err == nil {
		return true
	}
	p := b.hook.Load()
	if p == nil {
		return false
	}
	return (*p)(err)
}
