// Package guard invokes a callback when an interaction lands outside a
// region: the dismiss-on-outside-click pattern, decoupled from any UI
// toolkit. Events arrive through a Source; what a "target" or a "region"
// is belongs entirely to the host.
package guard

import (
	"fmt"
	"sync"
)

// Guard watches a Source while active and fires its callback for every
// interaction whose target falls outside the region.
//
// At most one subscription is active per guard: Activate while active
// first deactivates the previous registration. The callback runs on the
// guard's delivery goroutine; a callback already in flight when Deactivate
// returns may still complete.
type Guard struct {
	source Source

	mu     sync.Mutex
	stop   func()
	closed bool
}

// New wraps source. The guard starts inactive.
func New(source Source) *Guard {
	return &Guard{source: source}
}

// Activate subscribes to the source and arms the callback. The previous
// registration, if any, is deactivated first. Fails only when the source
// cannot be subscribed or the guard is closed.
func (g *Guard) Activate(region Region, callback func(Interaction)) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return ErrGuardClosed
	}
	g.deactivateLocked()

	ch, stop, err := g.source.Interactions()
	if err != nil {
		return fmt.Errorf("subscribe interactions: %w", err)
	}
	g.stop = stop

	go func() {
		for i := range ch {
			if !region.Contains(i.Target) {
				callback(i)
			}
		}
	}()
	return nil
}

// Deactivate drops the active registration. Idempotent when none is.
func (g *Guard) Deactivate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deactivateLocked()
}

// Close deactivates and makes the guard inert. Safe to call more than
// once.
func (g *Guard) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.closed = true
	g.deactivateLocked()
}

// deactivateLocked ends the subscription; the delivery goroutine exits
// when its channel closes.
func (g *Guard) deactivateLocked() {
	if g.stop != nil {
		g.stop()
		g.stop = nil
	}
}
