package testutil

import "sync"

// DeterministicClock is a resettable logical clock for tests. It satisfies
// harness.Clock and remembers every value it handed out, so a test can
// check that each tick was stamped exactly once.
type DeterministicClock struct {
	mu     sync.Mutex
	seq    int64
	stamps []int64
}

// NewDeterministicClock creates a clock starting at 0. The first Next
// returns 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// Next increments and returns the sequence number.
func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.stamps = append(c.stamps, c.seq)
	return c.seq
}

// Current returns the last value handed out, or 0.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Stamps returns a copy of every value returned by Next since the last Reset.
func (c *DeterministicClock) Stamps() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int64, len(c.stamps))
	copy(out, c.stamps)
	return out
}

// Reset returns the clock to 0 and forgets its stamps.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
	c.stamps = nil
}
