package resource

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/on-the-ground/react_ive_go/reactive"
	"github.com/on-the-ground/react_ive_go/reactive/debounce"
	"github.com/on-the-ground/react_ive_go/reactive/watch"
)

// DepsProducer is a producer parameterized by the dependency set that
// triggered it. The set it receives is the coalesced snapshot from the
// Update burst, not whatever Update saw most recently.
type DepsProducer[T any] func(ctx context.Context, deps watch.Set) (T, error)

// Options configures a Resource.
type Options[T any] struct {
	// Debounce is the quiet period between a dependency change and the
	// producer run it triggers. 0 fires on the next timer tick, still
	// asynchronously.
	Debounce time.Duration
	// InitialValue, when non-nil, makes the resource start in
	// Succeeded{generation 0} with this value instead of Idle.
	InitialValue *T
	// BufferSize is the per-watcher buffer of the status stream.
	// Values below 1 are clamped to 1.
	BufferSize int
	// Logger defaults to zap.NewNop().
	Logger *zap.Logger
}

// Resource keeps one asynchronous computation in sync with the dependency
// set that feeds it. Update re-runs the producer when the set changes,
// debounced; Refresh re-runs it unconditionally and immediately. Runs are
// generation-tagged through an embedded Controller, so a run that settles
// after a newer one has started is discarded, never applied out of order.
type Resource[T any] struct {
	ctrl    *Controller[T]
	sched   *debounce.Scheduler[watch.Set]
	produce DepsProducer[T]
	delay   time.Duration

	mu     sync.Mutex
	primed bool
	deps   watch.Set
	closed bool
}

// New builds a resource around produce.
//
// A non-nil initialDeps primes the watcher and schedules the first run
// through the debounce path, exactly as an Update with those deps would.
// A nil initialDeps leaves the resource unprimed: the first Update always
// triggers, whatever set it carries.
//
// Canceling ctx cancels in-flight and future producer runs; it does not
// replace Close, which also stops timers and the status stream.
func New[T any](ctx context.Context, initialDeps watch.Set, produce DepsProducer[T], opts Options[T]) *Resource[T] {
	r := &Resource[T]{
		ctrl:    NewController[T](ctx, opts.Logger, opts.BufferSize),
		sched:   debounce.NewScheduler[watch.Set](),
		produce: produce,
		delay:   opts.Debounce,
	}
	if opts.InitialValue != nil {
		// pre-publication, nobody can observe the controller yet
		r.ctrl.status = Status[T]{Phase: Succeeded, Generation: 0, Value: *opts.InitialValue}
	}
	if initialDeps != nil {
		r.primed = true
		r.deps = initialDeps
		r.sched.Schedule(initialDeps, r.delay, r.launch)
	}
	return r
}

// Update feeds the watcher a fresh dependency set. An unchanged set is a
// no-op; a changed one supersedes any pending debounce timer and schedules
// a producer run with the new set after the quiet period.
func (r *Resource[T]) Update(deps watch.Set) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	if r.primed && r.deps.Equal(deps) {
		r.mu.Unlock()
		return
	}
	r.primed = true
	r.deps = deps
	r.mu.Unlock()
	r.sched.Schedule(deps, r.delay, r.launch)
}

// Refresh forces a new generation with the current dependency set,
// bypassing the debounce: any pending scheduled run is canceled, since the
// forced one supersedes it. On an unprimed resource the producer sees a
// nil set. Returns the minted generation, 0 when closed.
func (r *Resource[T]) Refresh() uint64 {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return 0
	}
	deps := r.deps
	r.mu.Unlock()
	r.sched.Cancel()
	return r.run(deps)
}

// Status returns a snapshot of the latest settled or pending status.
func (r *Resource[T]) Status() Status[T] {
	return r.ctrl.Status()
}

// Watch subscribes to status transitions. Subscribe before reading Status
// to avoid missing the transition in between.
func (r *Resource[T]) Watch() (<-chan Status[T], func()) {
	return r.ctrl.Watch()
}

var _ reactive.Observable[Status[any]] = &Resource[any]{}

// Close cancels any pending timer and in-flight run and marks the resource
// inert; completions still in flight are treated as stale. Safe to call
// more than once.
func (r *Resource[T]) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()
	r.sched.Close()
	r.ctrl.Close()
}

// launch is the debounce callback: it fires on the timer goroutine with
// the coalesced dependency snapshot.
func (r *Resource[T]) launch(deps watch.Set) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	r.run(deps)
}

func (r *Resource[T]) run(deps watch.Set) uint64 {
	return r.ctrl.Run(func(ctx context.Context) (T, error) {
		return r.produce(ctx, deps)
	})
}
