// Package throttle limits how often an action may fire.
//
// A Throttle remembers the wall-clock time of its last successful run.
// Calls arriving before the cooldown window has elapsed are dropped.
package throttle

import "time"

// Clock returns the current time. Tests substitute a manual clock.
type Clock func() time.Time

// Throttle is a cooldown gate. The zero value is not usable; use New.
type Throttle struct {
	window time.Duration
	now    Clock
	last   time.Time
	fired  bool
}

// New creates a throttle with the given cooldown window.
// A nil clock means time.Now.
func New(window time.Duration, now Clock) *Throttle {
	if now == nil {
		now = time.Now
	}
	return &Throttle{window: window, now: now}
}

// Allow reports whether the window has elapsed since the last allowed call,
// and if so starts a new window.
func (t *Throttle) Allow() bool {
	now := t.now()
	if t.fired && now.Sub(t.last) < t.window {
		return false
	}
	t.last = now
	t.fired = true
	return true
}

// Do runs fn if the throttle allows it. Returns whether fn ran.
func (t *Throttle) Do(fn func()) bool {
	if !t.Allow() {
		return false
	}
	fn()
	return true
}

// Reset forgets the last run so the next call is allowed.
func (t *Throttle) Reset() {
	t.fired = false
	t.last = time.Time{}
}

// Func wraps a nullary action. The wrapper returns the action's result and
// true, or the zero value and false when throttled.
func Func[R any](window time.Duration, now Clock, fn func() R) func() (R, bool) {
	t := New(window, now)
	return func() (R, bool) {
		var r R
		if !t.Allow() {
			return r, false
		}
		return fn(), true
	}
}

// Wrap is Func for actions taking one argument.
func Wrap[A, R any](window time.Duration, now Clock, fn func(A) R) func(A) (R, bool) {
	t := New(window, now)
	return func(a A) (R, bool) {
		var r R
		if !t.Allow() {
			return r, false
		}
		return fn(a), true
	}
}
