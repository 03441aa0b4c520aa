package dispatch

import (
	"context"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Keyed is implemented by messages that carry a routing key. Messages with
// the same key are always handled by the same worker, preserving per-key
// ordering.
type Keyed interface {
	DispatchKey() string
}

// Queue routes messages to worker channels.
type Queue[T any] interface {
	ChannelFor(msg T) chan T
}

// --- single queue ---

type singleQueue[T any] struct {
	ch chan T
}

func (q singleQueue[T]) ChannelFor(_ T) chan T {
	return q.ch
}

// NewSingle starts one worker goroutine draining a buffered channel into
// handle. The worker exits when ctx is cancelled. Its channel is left open:
// senders race worker shutdown, and a send must never hit a closed channel.
// Messages enqueued after exit are simply not drained.
func NewSingle[T any](
	ctx context.Context,
	bufferSize int,
	handle func(context.Context, T),
) Queue[T] {
	ch := make(chan T, bufferSize)
	ready := make(chan struct{})

	go func(ch chan T) {
		close(ready)
		for {
			select {
			case msg := <-ch:
				handle(ctx, msg)
			case <-ctx.Done():
				return
			}
		}
	}(ch)

	<-ready

	return singleQueue[T]{ch: ch}
}

// --- partitioned queue ---

type partitionedQueue[T Keyed] struct {
	chs []chan T
}

func (q partitionedQueue[T]) ChannelFor(msg T) chan T {
	return q.chs[indexByKey(msg, len(q.chs))]
}

// NewPartitioned starts numWorkers goroutines, each draining its own
// buffered channel into handle. Messages are routed by hash of their
// DispatchKey, so per-key ordering holds while distinct keys proceed
// concurrently. As with NewSingle, worker channels are never closed.
func NewPartitioned[T Keyed](
	ctx context.Context,
	numWorkers, bufferSize int,
	handle func(context.Context, T),
) Queue[T] {
	chs := make([]chan T, numWorkers)
	ready := sync.WaitGroup{}
	for i := 0; i < numWorkers; i++ {
		ready.Add(1)
		ch := make(chan T, bufferSize)
		go func(ch chan T) {
			ready.Done()
			for {
				select {
				case msg := <-ch:
					handle(ctx, msg)
				case <-ctx.Done():
					return
				}
			}
		}(ch)
		chs[i] = ch
	}
	ready.Wait()
	return partitionedQueue[T]{chs: chs}
}

func indexByKey(msg Keyed, numChs int) int {
	switch numChs {
	case 0:
		panic("number of channels cannot be 0")
	case 1:
		return 0
	default:
		return int(xxhash.Sum64String(msg.DispatchKey()) % uint64(numChs))
	}
}
