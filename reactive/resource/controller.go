package resource

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/on-the-ground/react_ive_go/reactive"
	"github.com/on-the-ground/react_ive_go/shared/stamp"
)

// Producer is an asynchronous operation that returns a value of type T.
// It must honor ctx cancellation where it can; a producer that ignores ctx
// still behaves correctly, its result is simply discarded on arrival.
type Producer[T any] func(context.Context) (T, error)

// Controller runs producers one generation at a time and keeps a status
// that is monotonic in generation: no settlement ever moves the observed
// status to an older generation, no matter how late the producer finishes.
//
// Settlement rules, applied under the controller mutex:
//   - controller closed: discard
//   - run generation != current generation: stale, discard
//   - run context canceled: result ignored, no transition
//   - otherwise: Succeeded with the value, or Failed with the error verbatim
//
// Discards are debug-logged, never surfaced. There are no retries; callers
// that want one re-invoke Run.
type Controller[T any] struct {
	id     string
	base   context.Context
	logger *zap.Logger
	clock  *Clock

	mu     sync.Mutex
	status Status[T]
	cancel context.CancelFunc
	closed bool

	subject *reactive.Subject[Status[T]]
}

// NewController returns a controller in the Idle phase.
//
// Per-run contexts derive from ctx, so canceling it cancels every run the
// controller ever starts; pass context.Background() for an unbounded one.
// bufferSize is the per-watcher buffer of the status stream; slow watchers
// lose intermediate statuses, never the mutex-guarded Status snapshot.
// A nil logger defaults to zap.NewNop().
func NewController[T any](ctx context.Context, logger *zap.Logger, bufferSize int) *Controller[T] {
	return newController[T](ctx, logger, bufferSize, NewClock())
}

func newController[T any](ctx context.Context, logger *zap.Logger, bufferSize int, clock *Clock) *Controller[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller[T]{
		id:      uuid.New().String(),
		base:    ctx,
		logger:  logger,
		clock:   clock,
		status:  Status[T]{Phase: Idle},
		subject: reactive.NewSubject[Status[T]](bufferSize),
	}
}

// Run mints the next generation, publishes Pending for it, and invokes the
// producer on its own goroutine with a per-run cancelable context. The
// previous run's context, if any, is canceled: its result is going to be
// stale anyway, so it may as well stop working.
//
// Returns the minted generation, or 0 if the controller is closed (0 is
// never handed to a live run).
func (c *Controller[T]) Run(produce Producer[T]) uint64 {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return 0
	}
	if c.cancel != nil {
		c.cancel()
	}
	gen := c.clock.Next()
	runCtx, cancel := context.WithCancel(c.base)
	c.cancel = cancel
	startedAt := time.Now()
	c.publishLocked(Status[T]{Phase: Pending, Generation: gen})
	c.mu.Unlock()

	ready := make(chan struct{})
	go func() {
		close(ready)
		value, err := produce(runCtx)
		c.settle(runCtx, gen, startedAt, value, err)
	}()
	<-ready
	return gen
}

// Cancel signals the in-flight producer, if any, that its result will be
// ignored. It causes no status transition: the status stays Pending for
// that generation until a newer run settles or the controller closes.
func (c *Controller[T]) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Status returns a snapshot of the latest published status.
func (c *Controller[T]) Status() Status[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Watch subscribes to status transitions. Subscribe before reading Status
// to avoid missing the transition in between; duplicates can be collapsed
// by (Generation, Phase).
func (c *Controller[T]) Watch() (<-chan Status[T], func()) {
	return c.subject.Watch()
}

// Close cancels any in-flight run and marks the controller inert: later
// Run calls return 0 and every settlement still in flight is discarded.
// Safe to call more than once.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()
	c.subject.Close()
}

func (c *Controller[T]) settle(runCtx context.Context, gen uint64, startedAt time.Time, value T, err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.logger.Debug("result after close discarded",
			zap.String("controller", c.id),
			zap.Uint64("generation", gen),
		)
		return
	}
	if current := c.clock.Current(); gen != current {
		c.mu.Unlock()
		c.logger.Debug("stale result discarded",
			zap.String("controller", c.id),
			zap.Uint64("generation", gen),
			zap.Uint64("current", current),
		)
		return
	}
	if runCtx.Err() != nil {
		c.mu.Unlock()
		c.logger.Debug("canceled result ignored",
			zap.String("controller", c.id),
			zap.Uint64("generation", gen),
		)
		return
	}
	// this run is the current one and settled on its own; release its context
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	status := Status[T]{
		Generation: gen,
		Span:       stamp.Between(startedAt, time.Now()),
	}
	if err != nil {
		status.Phase = Failed
		status.Err = err
	} else {
		status.Phase = Succeeded
		status.Value = value
	}
	c.publishLocked(status)
	c.mu.Unlock()
}

// publishLocked stores and emits a status. Callers hold c.mu; Emit never
// blocks, so holding the mutex across it is fine.
func (c *Controller[T]) publishLocked(status Status[T]) {
	c.status = status
	c.subject.Emit(status)
}
