package harness

import "sync/atomic"

// Clock stamps ticks with strictly increasing sequence numbers.
type Clock interface {
	Next() int64
	Current() int64
}

// LogicalClock is the default Clock. It starts at 0; the first Next
// returns 1.
type LogicalClock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *LogicalClock {
	return &LogicalClock{}
}

// NewClockAt creates a clock whose first Next returns start+1.
func NewClockAt(start int64) *LogicalClock {
	c := &LogicalClock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number.
func (c *LogicalClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last sequence number handed out.
func (c *LogicalClock) Current() int64 {
	return c.seq.Load()
}
