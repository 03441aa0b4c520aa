package guard

import (
	"context"
	"time"

	"github.com/on-the-ground/react_ive_go/reactive"
	"github.com/on-the-ground/react_ive_go/reactive/internal/dispatch"
)

// Hub is an in-process interaction Source: the host pumps events in with
// Publish, guards subscribe through Interactions. A single pump worker
// decouples publishers from fan-out, and both Publish and delivery are
// best-effort: when buffers fill, interactions are dropped, never blocked
// on.
type Hub struct {
	subject *reactive.Subject[Interaction]
	queue   dispatch.Queue[Interaction]
	cancel  context.CancelFunc
}

var _ Source = &Hub{}

// NewHub starts the pump worker. Canceling ctx stops it, as does Close.
func NewHub(ctx context.Context, bufferSize int) *Hub {
	ctx, cancel := context.WithCancel(ctx)
	h := &Hub{
		subject: reactive.NewSubject[Interaction](bufferSize),
		cancel:  cancel,
	}
	h.queue = dispatch.NewSingle(ctx, bufferSize, func(_ context.Context, i Interaction) {
		h.subject.Emit(i)
	})
	return h
}

// Publish hands an interaction to the pump. A zero At is stamped with the
// current time. Never blocks; a full pump queue drops the event.
func (h *Hub) Publish(i Interaction) {
	if i.At.IsZero() {
		i.At = time.Now()
	}
	select {
	case h.queue.ChannelFor(i) <- i:
	default:
		// interaction bursts beyond the buffer are best-effort
	}
}

// Interactions subscribes to the event stream. Returns ErrSourceClosed
// once the hub is closed.
func (h *Hub) Interactions() (<-chan Interaction, func(), error) {
	if h.subject.Closed() {
		return nil, nil, ErrSourceClosed
	}
	ch, stop := h.subject.Watch()
	return ch, stop, nil
}

// Close stops the pump and ends every subscription. Safe to call more
// than once.
func (h *Hub) Close() {
	h.cancel()
	h.subject.Close()
}
