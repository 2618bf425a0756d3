package lifecycle

import "sync/atomic"

// Flag is the shared session-liveness signal. It starts active and makes a
// single one-way transition to inactive; it never goes back. Every component
// that needs to observe or end the session holds a reference to the same Flag.
type Flag struct {
	inactive atomic.Bool
}

// New returns an active Flag.
func New() *Flag { return &Flag{} }

// IsActive reports whether the session should keep running.
func (f *Flag) IsActive() bool { return !f.inactive.Load() }

// Deactivate marks the session as ended. It is idempotent; calling it on an
// already-inactive flag is a no-op.
func (f *Flag) Deactivate() { f.inactive.Store(true) }
