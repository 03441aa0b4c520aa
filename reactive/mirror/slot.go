package mirror

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/on-the-ground/react_ive_go/reactive/debounce"
	"github.com/on-the-ground/react_ive_go/shared/stamp"

	"go.uber.org/zap"
)

// ErrSlotClosed reports a Flush on a closed slot.
var ErrSlotClosed = errors.New("mirror: slot closed")

const closeFlushTimeout = 5 * time.Second

// SlotOptions configures a Slot.
type SlotOptions struct {
	// FlushDelay overrides the registry default debounce for this slot.
	// Zero inherits the registry's.
	FlushDelay time.Duration
}

// Slot mirrors one value under one key. Get always returns the latest Set
// value; the store lags by at most the flush delay after the last write
// of a burst, and by nothing after Flush or Close.
type Slot[T any] struct {
	reg   *Registry
	key   string
	codec Codec[T]
	sched *debounce.Scheduler[T]
	delay time.Duration

	mu     sync.Mutex
	value  T
	dirty  bool
	seq    uint64
	closed bool
}

// NewSlot hydrates the slot from the registry's store. An absent key, a
// read failure or an undecodable stored value all fall back to
// defaultValue with a warn log; construction itself cannot fail.
func NewSlot[T any](ctx context.Context, reg *Registry, key string, defaultValue T, codec Codec[T], opts SlotOptions) *Slot[T] {
	delay := opts.FlushDelay
	if delay <= 0 {
		delay = reg.flushDelay
	}
	s := &Slot[T]{
		reg:   reg,
		key:   key,
		codec: codec,
		sched: debounce.NewScheduler[T](),
		delay: delay,
		value: defaultValue,
	}

	from := time.Now()
	data, err := reg.kv.Get(ctx, key)
	switch {
	case err != nil:
		reg.logger.Warn("hydrate read failed, using default",
			zap.String("key", key), zap.Error(err))
	case data == nil:
		// nothing stored yet
	default:
		v, err := codec.Decode(data)
		if err != nil {
			reg.logger.Warn("hydrate decode failed, using default",
				zap.String("key", key), zap.Error(err))
		} else {
			s.value = v
		}
	}
	reg.record(Entry{Op: OpHydrate, Key: key, Span: stamp.Between(from, time.Now())})
	return s
}

// Get returns the latest Set value, regardless of flush timing.
func (s *Slot[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set updates the in-memory value immediately and schedules a debounced
// flush: a burst of Sets costs one store write carrying the last value.
// After Close, Set is a no-op.
func (s *Slot[T]) Set(v T) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.value = v
	s.dirty = true
	s.seq++
	s.mu.Unlock()

	s.sched.Schedule(v, s.delay, func(T) {
		s.reg.enqueue(flushOp{target: s})
	})
}

// Flush forces the pending write to the store and waits for it. It goes
// through the flush queue, so it cannot overtake a debounced flush already
// queued for this key. A clean slot is a cheap no-op.
func (s *Slot[T]) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSlotClosed
	}
	s.mu.Unlock()

	s.sched.Cancel()
	return s.reg.flushNow(ctx, s)
}

// Close stops the slot's timer and lands a dirty value in the store before
// letting go. Flush errors at this point are warn-logged like any other;
// the slot is inert either way. Safe to call more than once.
func (s *Slot[T]) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.sched.Close()

	ctx, cancel := context.WithTimeout(context.Background(), closeFlushTimeout)
	defer cancel()
	if err := s.reg.flushNow(ctx, s); errors.Is(err, ErrRegistryClosed) {
		// workers are gone; write directly, ordering is moot at teardown
		_ = s.flushOnce(ctx)
	}
}

func (s *Slot[T]) flushKey() string { return s.key }

// flushOnce writes the current dirty value, if any, to the store. A queued
// flush that finds the slot clean has nothing to write and is journaled as
// a drop. The dirty flag is cleared only when no Set slipped in while the
// write was in flight, so an interleaved write keeps the slot scheduled for
// another flush.
func (s *Slot[T]) flushOnce(ctx context.Context) error {
	from := time.Now()
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		s.reg.record(Entry{Op: OpDrop, Key: s.key, Span: stamp.Between(from, time.Now())})
		return nil
	}
	seq := s.seq
	value := s.value
	s.mu.Unlock()

	data, err := s.codec.Encode(value)
	if err != nil {
		s.reg.logger.Warn("flush encode failed",
			zap.String("key", s.key), zap.Error(err))
		s.reg.record(Entry{Op: OpFlushError, Key: s.key, Span: stamp.Between(from, time.Now())})
		return err
	}
	if err := s.reg.kv.Set(ctx, s.key, data, 0); err != nil {
		s.reg.logger.Warn("flush write failed",
			zap.String("key", s.key), zap.Error(err))
		s.reg.record(Entry{Op: OpFlushError, Key: s.key, Span: stamp.Between(from, time.Now())})
		return err
	}

	s.mu.Lock()
	if s.seq == seq {
		s.dirty = false
	}
	s.mu.Unlock()
	s.reg.record(Entry{Op: OpFlush, Key: s.key, Span: stamp.Between(from, time.Now())})
	return nil
}
