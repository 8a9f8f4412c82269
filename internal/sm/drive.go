package sm

import (
	"iter"
	"slices"
)

// Unbounded is the tick limit of a Run that continues until the machine is
// done or stops producing output.
const Unbounded = -1

// Transduce drives m from its start state over inputs and collects its
// outputs. Driving stops before a step whose current state is done, and at
// the first tick that produces no output.
func Transduce[I, O any](m Machine[I, O], inputs []I) []O {
	return slices.Collect(TransduceSeq(m, slices.Values(inputs)))
}

// Run drives m from its start state with no input for at most n ticks
// (Unbounded for no limit) and collects its outputs. Stopping follows
// Transduce. An Unbounded run of a machine that never finishes does not
// return.
func Run[I, O any](m Machine[I, O], n int) []O {
	return slices.Collect(limit(RunSeq(m), n))
}

// TransduceSeq is the lazy form of Transduce.
func TransduceSeq[I, O any](m Machine[I, O], inputs iter.Seq[I]) iter.Seq[O] {
	return func(yield func(O) bool) {
		state := m.Start()
		for in := range inputs {
			if m.Done(state) {
				return
			}
			var out Opt[O]
			state, out = m.Next(state, Some(in))
			if !out.Valid || !yield(out.V) {
				return
			}
		}
	}
}

// RunSeq is the lazy, self-clocked form of Run. It ends only when the
// machine is done or produces no output.
func RunSeq[I, O any](m Machine[I, O]) iter.Seq[O] {
	return func(yield func(O) bool) {
		state := m.Start()
		for !m.Done(state) {
			var out Opt[O]
			state, out = m.Next(state, None[I]())
			if !out.Valid || !yield(out.V) {
				return
			}
		}
	}
}

func limit[T any](seq iter.Seq[T], n int) iter.Seq[T] {
	if n == Unbounded {
		return seq
	}
	return func(yield func(T) bool) {
		if n <= 0 {
			return
		}
		taken := 0
		for v := range seq {
			if !yield(v) {
				return
			}
			taken++
			if taken == n {
				return
			}
		}
	}
}
