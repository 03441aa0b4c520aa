// Package debounce delays action until input activity pauses for a
// configured interval.
//
// A Scheduler holds at most one pending trailing-edge timer: scheduling
// again before the timer fires cancels and replaces it, so a burst of
// inputs collapses into a single callback carrying the last value.
package debounce

import (
	"sync"
	"time"
)

// Scheduler coalesces rapid scheduling requests into one deferred callback.
//
// The zero value is ready to use. A Scheduler cannot fail; a pending
// callback can only be superseded by a later Schedule, Cancel or Close.
type Scheduler[T any] struct {
	mu     sync.Mutex
	timer  *time.Timer
	seq    uint64
	closed bool
}

// NewScheduler returns an empty scheduler.
func NewScheduler[T any]() *Scheduler[T] {
	return &Scheduler[T]{}
}

// Schedule cancels any pending timer and starts a new one that invokes
// fn(v) once delay elapses with no further Schedule calls.
//
// A delay of zero still yields asynchronous invocation: fn runs on the
// timer goroutine, never inline, preserving ordering with other deferred
// work. After Close, Schedule is a no-op.
func (s *Scheduler[T]) Schedule(v T, delay time.Duration, fn func(T)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.seq++
	seq := s.seq
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		if s.closed || seq != s.seq {
			// superseded while the timer was in flight
			s.mu.Unlock()
			return
		}
		s.timer = nil
		s.mu.Unlock()
		fn(v)
	})
}

// Cancel drops a pending timer without invoking its callback. Idempotent
// when none is pending.
func (s *Scheduler[T]) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supersedeLocked()
}

// Pending reports whether a timer is currently armed.
func (s *Scheduler[T]) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// Close cancels any pending timer and makes the scheduler inert. Safe to
// call more than once.
func (s *Scheduler[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.supersedeLocked()
}

func (s *Scheduler[T]) supersedeLocked() {
	s.seq++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
