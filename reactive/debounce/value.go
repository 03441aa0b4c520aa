package debounce

import (
	"sync"
	"time"

	"github.com/on-the-ground/react_ive_go/reactive"
)

// Value republishes a source observable after a quiet period: each source
// emission re-arms the timer, so only the last value of a burst is emitted,
// delay after the burst ends.
type Value[T any] struct {
	subject *reactive.Subject[T]
	sched   *Scheduler[T]
	stop    func()

	mu      sync.Mutex
	hasLast bool
	last    T
	closed  bool
}

var _ reactive.Observable[any] = &Value[any]{}

// NewValue subscribes to src and returns the debounced view. The returned
// Value must be closed when no longer needed; it also closes itself once
// src closes, after flushing any still-pending last value (the end of the
// stream counts as quiescence).
func NewValue[T any](src reactive.Observable[T], delay time.Duration, bufferSize int) *Value[T] {
	v := &Value[T]{
		subject: reactive.NewSubject[T](bufferSize),
		sched:   NewScheduler[T](),
	}
	ch, stop := src.Watch()
	v.stop = stop

	go func() {
		for item := range ch {
			v.mu.Lock()
			v.hasLast = true
			v.last = item
			v.mu.Unlock()
			v.sched.Schedule(item, delay, v.emit)
		}
		v.drain()
	}()

	return v
}

// Watch subscribes to the debounced stream.
func (v *Value[T]) Watch() (<-chan T, func()) {
	return v.subject.Watch()
}

// Close cancels the source subscription and any pending emission. Safe to
// call more than once.
func (v *Value[T]) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.mu.Unlock()

	v.stop()
	v.sched.Close()
	v.subject.Close()
}

// emit delivers a debounced value downstream.
func (v *Value[T]) emit(item T) {
	v.mu.Lock()
	if v.closed {
		// drain or Close owns the final word on the stream
		v.mu.Unlock()
		return
	}
	v.hasLast = false
	v.mu.Unlock()
	v.subject.Emit(item)
}

// drain runs when the source closes: a value still waiting out its quiet
// period is emitted immediately, then the stream completes.
func (v *Value[T]) drain() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	pending := v.hasLast
	last := v.last
	v.hasLast = false
	v.mu.Unlock()

	v.sched.Close()
	if pending {
		v.subject.Emit(last)
	}
	v.subject.Close()
}
