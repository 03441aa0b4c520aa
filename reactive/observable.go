package reactive

import (
	"sync"
)

// Observable is a best-effort broadcast stream.
//
// It is designed for status and invalidation signals rather than durable
// delivery: implementations may drop values when subscribers are slow.
//
// Watch is reference-counted via the returned stop function; callers must
// call stop exactly once to release the subscription.
type Observable[T any] interface {
	// Watch subscribes to the stream and returns:
	//   - a channel that emits values
	//   - a stop function to unsubscribe (must be called once)
	Watch() (<-chan T, func())
}

// Subject is an Observable that callers can emit into.
//
// Delivery is non-blocking: a subscriber whose buffer is full misses the
// value. Emitting after Close is a no-op. The zero value is not usable;
// construct with NewSubject.
type Subject[T any] struct {
	mu     sync.Mutex
	sinks  map[uint64]chan T
	nextID uint64
	buffer int
	closed bool
}

var _ Observable[any] = &Subject[any]{}

// NewSubject returns a Subject whose subscribers each get a buffer of
// bufferSize values. A bufferSize below 1 is clamped to 1.
func NewSubject[T any](bufferSize int) *Subject[T] {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &Subject[T]{
		sinks:  make(map[uint64]chan T),
		buffer: bufferSize,
	}
}

// Watch subscribes to the subject. On a closed subject it returns a channel
// that is already closed, and a no-op stop.
func (s *Subject[T]) Watch() (<-chan T, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		ch := make(chan T)
		close(ch)
		return ch, func() {}
	}

	id := s.nextID
	s.nextID++
	ch := make(chan T, s.buffer)
	s.sinks[id] = ch

	var once sync.Once
	stop := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sink, ok := s.sinks[id]; ok {
				delete(s.sinks, id)
				close(sink)
			}
		})
	}
	return ch, stop
}

// Emit broadcasts v to every subscriber. Subscribers with full buffers are
// skipped so that one slow consumer cannot stall the emitter.
func (s *Subject[T]) Emit(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	for _, sink := range s.sinks {
		select {
		case sink <- v:
		default:
			// full sink, value dropped for this subscriber
		}
	}
}

// Close closes every subscriber channel and marks the subject inert.
// Safe to call more than once.
func (s *Subject[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for id, sink := range s.sinks {
		delete(s.sinks, id)
		close(sink)
	}
}

// Closed reports whether Close has been called.
func (s *Subject[T]) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
