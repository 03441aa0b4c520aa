package debounce_test

import (
	"testing"
	"time"

	"github.com/on-the-ground/react_ive_go/reactive"
	"github.com/on-the-ground/react_ive_go/reactive/debounce"
)

// Test that a burst of source emissions surfaces as one debounced value.
func TestValue_EmitsLastOfBurst(t *testing.T) {
	src := reactive.NewSubject[string](8)
	defer src.Close()

	val := debounce.NewValue(src, 50*time.Millisecond, 8)
	defer val.Close()

	ch, stop := val.Watch()
	defer stop()

	src.Emit("a")
	src.Emit("b")
	src.Emit("c")

	select {
	case v := <-ch:
		if v != "c" {
			t.Fatalf("expected %q, got %q", "c", v)
		}
	case <-time.After(time.Second):
		t.Fatal("debounced value never emitted")
	}

	select {
	case v := <-ch:
		t.Fatalf("unexpected second emission %q", v)
	case <-time.After(150 * time.Millisecond):
		// expected
	}
}

// Test that separate bursts each surface their own value.
func TestValue_SeparateBurstsEmitSeparately(t *testing.T) {
	src := reactive.NewSubject[int](8)
	defer src.Close()

	val := debounce.NewValue(src, 30*time.Millisecond, 8)
	defer val.Close()

	ch, stop := val.Watch()
	defer stop()

	src.Emit(1)
	var got []int
	select {
	case v := <-ch:
		got = append(got, v)
	case <-time.After(time.Second):
		t.Fatal("first burst never emitted")
	}

	src.Emit(2)
	select {
	case v := <-ch:
		got = append(got, v)
	case <-time.After(time.Second):
		t.Fatal("second burst never emitted")
	}

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected [1 2], got %v", got)
	}
}

// Test that closing the source flushes a value still waiting out its
// quiet period, then completes the debounced stream.
func TestValue_SourceCloseFlushesPending(t *testing.T) {
	src := reactive.NewSubject[string](8)

	val := debounce.NewValue(src, 5*time.Second, 8)
	defer val.Close()

	ch, stop := val.Watch()
	defer stop()

	src.Emit("pending")
	time.Sleep(20 * time.Millisecond) // let the subscription see it
	src.Close()

	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatal("stream closed before flushing the pending value")
		}
		if v != "pending" {
			t.Fatalf("expected %q, got %q", "pending", v)
		}
	case <-time.After(time.Second):
		t.Fatal("pending value never flushed on source close")
	}

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected stream completion after flush")
		}
	case <-time.After(time.Second):
		t.Fatal("stream never completed after source close")
	}
}

// Test that Close drops a pending value instead of emitting it.
func TestValue_CloseDropsPending(t *testing.T) {
	src := reactive.NewSubject[string](8)
	defer src.Close()

	val := debounce.NewValue(src, 5*time.Second, 8)

	ch, stop := val.Watch()
	defer stop()

	src.Emit("doomed")
	time.Sleep(20 * time.Millisecond)
	val.Close()
	val.Close()

	select {
	case v, ok := <-ch:
		if ok {
			t.Fatalf("unexpected emission %q after Close", v)
		}
	case <-time.After(time.Second):
		t.Fatal("stream never completed after Close")
	}
}
