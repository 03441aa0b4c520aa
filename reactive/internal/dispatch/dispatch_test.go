package dispatch_test

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/on-the-ground/react_ive_go/reactive/internal/dispatch"
)

// keyedMessage implements Keyed for testing partitioned routing.
type keyedMessage struct {
	id    int
	group string
}

func (m keyedMessage) DispatchKey() string {
	return m.group
}

// Test that NewSingle calls the handler with messages sent to it.
func TestSingle_DispatchesToHandler(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu     sync.Mutex
		called []int
		wg     sync.WaitGroup
	)
	wg.Add(2)

	handleFn := func(_ context.Context, msg int) {
		defer wg.Done()
		mu.Lock()
		called = append(called, msg)
		mu.Unlock()
	}

	queue := dispatch.NewSingle(ctx, 10, handleFn)
	ch := queue.ChannelFor(0)

	ch <- 1
	ch <- 2
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()

	if len(called) != 2 || !slices.Contains(called, 1) || !slices.Contains(called, 2) {
		t.Errorf("Handler was not called correctly: %v", called)
	}
}

// Test that NewPartitioned dispatches messages to the correct worker
// based on their DispatchKey.
func TestPartitioned_RoutesByKey(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu        sync.Mutex
		workerHit = make(map[string][]int)
		wg        sync.WaitGroup
	)
	wg.Add(4)

	handleFn := func(_ context.Context, msg keyedMessage) {
		defer wg.Done()
		mu.Lock()
		workerHit[msg.group] = append(workerHit[msg.group], msg.id)
		mu.Unlock()
	}

	queue := dispatch.NewPartitioned(ctx, 10, 10, handleFn)

	msgs := []keyedMessage{
		{1, "groupA"},
		{2, "groupA"},
		{3, "groupB"},
		{4, "groupB"},
	}

	for _, msg := range msgs {
		queue.ChannelFor(msg) <- msg
	}

	wg.Wait()

	mu.Lock()
	defer mu.Unlock()

	if len(workerHit["groupA"]) != 2 || len(workerHit["groupB"]) != 2 {
		t.Errorf("Expected each group to handle 2 messages: got %v", workerHit)
	}
}

// Test that after context cancelation the worker stops draining, and that
// a late send neither panics nor reaches the handler.
func TestSingle_LateSendAfterCancelIsNotDrained(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	called := make(chan int, 1)
	queue := dispatch.NewSingle(ctx, 1, func(_ context.Context, msg int) {
		called <- msg
	})

	queue.ChannelFor(0) <- 1

	select {
	case <-called:
		// expected
	case <-time.After(1 * time.Second):
		t.Fatal("Handler was not called before context cancel")
	}

	cancel()
	time.Sleep(100 * time.Millisecond) // give goroutine time to exit

	queue.ChannelFor(0) <- 2 // buffered, never drained

	select {
	case msg := <-called:
		t.Fatalf("Handler ran after cancel with message %d", msg)
	case <-time.After(200 * time.Millisecond):
		// expected
	}
}

// handlerState is used to block and observe handler execution.
type handlerState struct {
	blockUntil chan struct{}
	entered    chan struct{}
}

func (h *handlerState) Handle(ctx context.Context, msg int) {
	h.entered <- struct{}{}
	<-h.blockUntil
}

// Test that NewSingle blocks when buffer is full.
func TestSingle_BlocksWhenBufferIsFull(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	state := &handlerState{
		blockUntil: make(chan struct{}),
		entered:    make(chan struct{}, 1),
	}

	queue := dispatch.NewSingle(ctx, 1, state.Handle)
	targetCh := queue.ChannelFor(0)

	go func() {
		targetCh <- 1 // handler consumes this and blocks
	}()

	select {
	case <-state.entered:
		// handler entered
	case <-time.After(time.Second):
		t.Fatal("Handler did not start")
	}

	targetCh <- 2 // buffer fills

	blocked := make(chan struct{})
	go func() {
		targetCh <- 3 // should block
		blocked <- struct{}{}
	}()

	select {
	case <-blocked:
		t.Fatal("Expected third message to block, but it didn't")
	case <-time.After(200 * time.Millisecond):
		// expected
	}

	close(state.blockUntil) // unblock handler

	select {
	case <-blocked:
		// good
	case <-time.After(time.Second):
		t.Fatal("Third message never unblocked")
	}
}

// Test that messages with the same dispatch key are processed in order.
func TestPartitioned_OrderIsPreservedForSameKey(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu        sync.Mutex
		processed []int
		wg        sync.WaitGroup
	)
	wg.Add(5)

	handleFn := func(_ context.Context, msg keyedMessage) {
		defer wg.Done()
		mu.Lock()
		processed = append(processed, msg.id)
		mu.Unlock()
	}

	queue := dispatch.NewPartitioned(ctx, 2, 10, handleFn)

	key := "sameKey"
	for i := 0; i < 5; i++ {
		msg := keyedMessage{id: i, group: key}
		queue.ChannelFor(msg) <- msg
	}

	wg.Wait()

	mu.Lock()
	defer mu.Unlock()

	for i := 0; i < len(processed); i++ {
		if processed[i] != i {
			t.Fatalf("Expected order %v but got %v", []int{0, 1, 2, 3, 4}, processed)
		}
	}
}
