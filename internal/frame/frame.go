// Package frame provides the animation-frame primitive the game loop runs on:
// one pending callback at a time, identified by a handle, fired by the host tick.
package frame

import (
	"context"
	"time"
)

// Callback is the body of one frame. A returned error aborts the host loop.
type Callback func(now time.Time) error

// Scheduler holds at most one pending frame callback. Handles increase
// monotonically and double as the frame count.
type Scheduler struct {
	count   int
	pending int
	cb      Callback
}

// NewScheduler creates an idle scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Request schedules cb for the next Fire, replacing any pending callback.
// It returns the new handle.
func (s *Scheduler) Request(cb Callback) int {
	s.count++
	s.pending = s.count
	s.cb = cb
	return s.count
}

// Cancel drops the pending callback if handle still names it.
func (s *Scheduler) Cancel(handle int) {
	if handle != 0 && handle == s.pending {
		s.pending = 0
		s.cb = nil
	}
}

// Fire runs the pending callback, if any. The callback is removed before it
// runs so it may request the next frame. It reports whether a callback ran.
func (s *Scheduler) Fire(now time.Time) (bool, error) {
	if s.cb == nil {
		return false, nil
	}
	cb := s.cb
	s.cb = nil
	s.pending = 0
	return true, cb(now)
}

// Pending returns the handle of the pending callback, or 0.
func (s *Scheduler) Pending() int { return s.pending }

// Count returns the last issued handle.
func (s *Scheduler) Count() int { return s.count }

// Step is one iteration of a host loop. Returning false ends the loop.
type Step func(now time.Time) (bool, error)

// Run calls step every interval until it returns false, an error, or ctx is done.
// A slow step is followed immediately by the next one.
func Run(ctx context.Context, interval time.Duration, step Step) error {
	for {
		frameStart := time.Now()
		more, err := step(frameStart)
		if err != nil || !more {
			return err
		}

		wait := interval - time.Since(frameStart)
		if wait <= 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
