package sm

// seqState tracks the running child of a sequence.
type seqState struct {
	index int
	inner State
}

type sequence[I, O any] struct {
	machines []Machine[I, O]
}

// Seq runs first until it is done, then switches permanently to second.
// The composite is done when second is done.
func Seq[I, O any](first, second Machine[I, O]) Machine[I, O] {
	return Sequence(first, second)
}

// Sequence runs the given machines one after another. The switch to the
// next machine happens on the tick the current one finishes, so Done is
// accurate right after each step. The composite is done when the last
// machine is done.
func Sequence[I, O any](first Machine[I, O], rest ...Machine[I, O]) Machine[I, O] {
	machines := make([]Machine[I, O], 0, len(rest)+1)
	machines = append(machines, first)
	machines = append(machines, rest...)
	return sequence[I, O]{machines: machines}
}

func (q sequence[I, O]) Start() State {
	return q.advance(seqState{index: 0, inner: q.machines[0].Start()})
}

func (q sequence[I, O]) Next(state State, input Opt[I]) (State, Opt[O]) {
	st := state.(seqState)
	inner, out := q.machines[st.index].Next(st.inner, input)
	return q.advance(seqState{index: st.index, inner: inner}), out
}

func (q sequence[I, O]) Done(state State) bool {
	st := state.(seqState)
	return st.index == len(q.machines)-1 && q.machines[st.index].Done(st.inner)
}

// advance skips over finished machines, including ones that are done in
// their start state.
func (q sequence[I, O]) advance(st seqState) seqState {
	last := len(q.machines) - 1
	for st.index < last && q.machines[st.index].Done(st.inner) {
		st.index++
		st.inner = q.machines[st.index].Start()
	}
	return st
}
