package dcg

import "sync/atomic"

// Clock is a monotonic logical counter.
//
// The engine runs three of these: one allocating meta-node ids, one
// counting input mutations, and one ticking per recorded trace event.
// All ordering inside the engine is logical; wall-clock time is never
// consulted.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations),
// though the engine's single-threaded design means only one goroutine
// typically calls Next().
type Clock struct {
	seq atomic.Uint64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock starting at a specific value.
func NewClockAt(start uint64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next value and increments the clock.
// Each call returns a unique, strictly increasing value.
func (c *Clock) Next() uint64 {
	return c.seq.Add(1)
}

// Current returns the current value without incrementing.
func (c *Clock) Current() uint64 {
	return c.seq.Load()
}
