// Package clock abstracts wall-clock reads and delayed callbacks so the
// timer logic can be driven by a virtual clock in tests.
package clock

import "time"

// Clock provides the current time and cancellable delayed callbacks.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// AfterFunc calls f after d elapses. The returned Timer cancels the call.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending AfterFunc callback.
type Timer interface {
	// Stop prevents the callback from firing. It reports false when the
	// callback already fired or was stopped before.
	Stop() bool
}

// Real is a Clock backed by the time package.
type Real struct{}

// NewReal returns the wall clock.
func NewReal() Real {
	return Real{}
}

// Now returns time.Now.
func (Real) Now() time.Time {
	return time.Now()
}

// AfterFunc wraps time.AfterFunc.
func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return &realTimer{timer: time.AfterFunc(d, f)}
}

type realTimer struct {
	timer *time.Timer
}

func (t *realTimer) Stop() bool {
	return t.timer.Stop()
}
