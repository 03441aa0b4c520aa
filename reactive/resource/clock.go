package resource

import "sync/atomic"

// Clock mints monotonically increasing generation numbers.
//
// Every recomputation cycle is stamped with a strictly increasing
// generation from this clock. This ensures:
// - at most one generation is current at any time
// - stale completions are detectable by a pure integer comparison
// - no wall-clock involvement, so ordering never races the scheduler
//
// Thread-safety: Clock is safe for concurrent use (atomic operations),
// though a Controller serializes its own calls behind its mutex.
type Clock struct {
	gen atomic.Uint64
}

// NewClock creates a clock starting at 0; generation 0 is never handed to
// a run, so 0 can double as the "no run yet" marker.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next generation and advances the clock. Each call
// returns a unique, increasing value.
func (c *Clock) Next() uint64 {
	return c.gen.Add(1)
}

// Current returns the latest minted generation without advancing.
func (c *Clock) Current() uint64 {
	return c.gen.Load()
}
