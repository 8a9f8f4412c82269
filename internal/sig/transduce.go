package sig

import "github.com/Fay3V/601/internal/sm"

// Transduced is the output signal of a machine driven by an input signal.
// It keeps the last materialized (index, state, output) so that forward
// queries only replay the ticks in between; a query before the last index
// rebuilds from the start state. Not safe for concurrent use.
type Transduced[I, O any] struct {
	machine sm.Machine[I, O]
	input   Signal[I]

	// next is the index the cached state will consume; last is the output
	// at next-1.
	next  int
	state sm.State
	last  sm.Opt[O]
	steps int
}

// Transduce bridges m to a signal: the sample at n is the output of m after
// consuming input samples 0..n from its start state.
//
// Sampling a negative index, or an index where m produces no output, panics
// with sm.ErrCodeNoOutput.
func Transduce[I, O any](m sm.Machine[I, O], input Signal[I]) *Transduced[I, O] {
	t := &Transduced[I, O]{machine: m, input: input}
	t.rewind()
	return t
}

func (t *Transduced[I, O]) rewind() {
	t.next = 0
	t.state = t.machine.Start()
	t.last = sm.None[O]()
}

// Sample implements Signal.
func (t *Transduced[I, O]) Sample(n int) O {
	if n < 0 {
		sm.Violation(sm.ErrCodeNoOutput, "sample at negative index %d", n)
	}
	if n < t.next-1 {
		t.rewind()
	}
	for t.next <= n {
		t.state, t.last = t.machine.Next(t.state, sm.Some(t.input.Sample(t.next)))
		t.next++
		t.steps++
	}
	if !t.last.Valid {
		sm.Violation(sm.ErrCodeNoOutput, "machine produced no output at index %d", n)
	}
	return t.last.V
}

// Steps returns the number of transitions computed so far, replays
// included.
func (t *Transduced[I, O]) Steps() int {
	return t.steps
}
