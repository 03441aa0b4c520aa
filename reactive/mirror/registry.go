// Package mirror keeps in-memory values mirrored into a durable key-value
// store: reads are always served from memory, writes land in the store
// after a debounce, and construction hydrates from whatever a previous
// process left behind.
//
// A Registry owns the store handle and a partitioned pool of flush
// workers; Slots hold the values. Flushes for one key are ordered, flushes
// for distinct keys proceed concurrently, and a flush failure costs a warn
// log entry, never an error in the caller's path: memory stays correct and
// a later write retries the key.
package mirror

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/on-the-ground/react_ive_go/reactive/internal/dispatch"
	"github.com/on-the-ground/react_ive_go/shared/stamp"
	"github.com/on-the-ground/react_ive_go/store"
)

// ErrRegistryClosed reports a flush requested after the registry stopped.
var ErrRegistryClosed = errors.New("mirror: registry closed")

// Op names a journal event.
type Op string

const (
	OpHydrate    Op = "hydrate"
	OpFlush      Op = "flush"
	OpFlushError Op = "flush_error"
	// OpDrop marks a queued flush that found its slot clean and wrote nothing,
	// e.g. the debounced flush behind a forced one that already landed.
	OpDrop Op = "drop"
)

// Entry is one journal record: which operation touched which key, and the
// span it took.
type Entry struct {
	Op   Op
	Key  string
	Span stamp.TimeSpan
}

// RegistryOptions configures a Registry. Zero values select the defaults.
type RegistryOptions struct {
	// FlushDelay is the default debounce between a Set and its flush,
	// for slots that don't carry their own. Defaults to 500ms.
	FlushDelay time.Duration
	// NumWorkers is the flush worker count. Defaults to 4.
	NumWorkers int
	// BufferSize is each worker's queue depth. Defaults to 16.
	BufferSize int
	// JournalBuffer is the journal feed's capacity; entries beyond it are
	// dropped. Defaults to 64.
	JournalBuffer int
	// Logger defaults to zap.NewNop().
	Logger *zap.Logger
}

const (
	defaultFlushDelay    = 500 * time.Millisecond
	defaultNumWorkers    = 4
	defaultBufferSize    = 16
	defaultJournalBuffer = 64
)

// Registry owns a KV store and the workers that flush slot values into it.
type Registry struct {
	id         string
	kv         store.KV
	logger     *zap.Logger
	flushDelay time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	queue  dispatch.Queue[flushOp]

	journalMu     sync.Mutex
	journal       chan Entry
	journalClosed bool

	closeMu sync.Mutex
	closed  bool
}

// flusher is a Slot seen from the flush queue, erased of its value type.
type flusher interface {
	flushKey() string
	flushOnce(ctx context.Context) error
}

type flushOp struct {
	target flusher
	done   chan error // nil for debounced fire-and-forget flushes
}

func (op flushOp) DispatchKey() string { return op.target.flushKey() }

// NewRegistry starts the flush workers on kv. Canceling ctx stops them,
// as does Close; close slots before their registry so last writes land.
func NewRegistry(ctx context.Context, kv store.KV, opts RegistryOptions) *Registry {
	if opts.FlushDelay <= 0 {
		opts.FlushDelay = defaultFlushDelay
	}
	if opts.NumWorkers < 1 {
		opts.NumWorkers = defaultNumWorkers
	}
	if opts.BufferSize < 1 {
		opts.BufferSize = defaultBufferSize
	}
	if opts.JournalBuffer < 1 {
		opts.JournalBuffer = defaultJournalBuffer
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(ctx)
	r := &Registry{
		id:         uuid.New().String(),
		kv:         kv,
		flushDelay: opts.FlushDelay,
		ctx:        ctx,
		cancel:     cancel,
		journal:    make(chan Entry, opts.JournalBuffer),
	}
	// every hydrate/flush log line carries the minting registry
	r.logger = logger.With(zap.String("registry", r.id))
	r.queue = dispatch.NewPartitioned(ctx, opts.NumWorkers, opts.BufferSize, r.handleFlush)
	return r
}

// Journal is a best-effort feed of hydrate, flush, flush-error and drop
// events, closed when the registry closes. Entries beyond the buffer are
// discarded, never blocking a flush.
func (r *Registry) Journal() <-chan Entry {
	return r.journal
}

// Close stops the flush workers and closes the journal. Flushes still
// queued are abandoned; slots keep their in-memory values. Safe to call
// more than once.
func (r *Registry) Close() {
	r.closeMu.Lock()
	if r.closed {
		r.closeMu.Unlock()
		return
	}
	r.closed = true
	r.closeMu.Unlock()

	r.cancel()

	r.journalMu.Lock()
	r.journalClosed = true
	close(r.journal)
	r.journalMu.Unlock()
}

func (r *Registry) handleFlush(ctx context.Context, op flushOp) {
	err := op.target.flushOnce(ctx)
	if op.done != nil {
		op.done <- err
	}
}

// enqueue hands a debounced flush to the worker pool. The send blocks on a
// full queue rather than dropping: a lost flush would strand a dirty value
// until the next write, while the debounce already bounds the send rate.
func (r *Registry) enqueue(op flushOp) {
	select {
	case r.queue.ChannelFor(op) <- op:
	case <-r.ctx.Done():
		// registry stopping; Slot.Close still lands dirty values
	}
}

// flushNow pushes a flush through the queue and waits for it, so a forced
// flush cannot overtake debounced ones already queued for the same key.
func (r *Registry) flushNow(ctx context.Context, target flusher) error {
	op := flushOp{target: target, done: make(chan error, 1)}
	select {
	case r.queue.ChannelFor(op) <- op:
	case <-r.ctx.Done():
		return ErrRegistryClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-op.done:
		return err
	case <-r.ctx.Done():
		return ErrRegistryClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// record publishes a journal entry, dropping it when the buffer is full.
func (r *Registry) record(e Entry) {
	r.journalMu.Lock()
	defer r.journalMu.Unlock()
	if r.journalClosed {
		return
	}
	select {
	case r.journal <- e:
	default:
	}
}
