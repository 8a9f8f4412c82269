package sm

type feedback[T any] struct {
	machine Machine[T, T]
}

// Feedback closes a loop from the output of m back to its input. The
// external input is ignored.
//
// Each tick resolves in two phases from the current state:
//  1. Next(state, None) gives the tentative output o
//  2. Next(state, o) gives the new state; its output is discarded
//
// o is emitted. m must compute its output from state alone when no input is
// given (a Delay somewhere on the loop), otherwise the loop is combinational
// and the result is meaningless.
func Feedback[T any](m Machine[T, T]) Machine[T, T] {
	return feedback[T]{machine: m}
}

func (f feedback[T]) Start() State {
	return f.machine.Start()
}

func (f feedback[T]) Next(state State, _ Opt[T]) (State, Opt[T]) {
	_, out := f.machine.Next(state, None[T]())
	next, _ := f.machine.Next(state, out)
	return next, out
}

func (f feedback[T]) Done(state State) bool {
	return f.machine.Done(state)
}

type feedback2[I, O any] struct {
	machine Machine[Pair[I, O], O]
}

// Feedback2 closes a loop around the second port of a two-input machine.
// The external input drives the first port; the fed-back output drives the
// second. The new state is computed only when both are present.
func Feedback2[I, O any](m Machine[Pair[I, O], O]) Machine[I, O] {
	return feedback2[I, O]{machine: m}
}

func (f feedback2[I, O]) Start() State {
	return f.machine.Start()
}

func (f feedback2[I, O]) Next(state State, input Opt[I]) (State, Opt[O]) {
	_, out := f.machine.Next(state, None[Pair[I, O]]())
	next, _ := f.machine.Next(state, Zip(input, out))
	return next, out
}

func (f feedback2[I, O]) Done(state State) bool {
	return f.machine.Done(state)
}

type feedbackOp[X, I, O, B any] struct {
	forward Machine[I, O]
	back    Machine[O, B]
	op      func(X, B) I
}

// FeedbackOp closes a loop through a back path and combines the external
// input with the fed-back value before re-injection:
//
//	o      = forward.Next(state, None)
//	b      = back.Next(backState, o)
//	state' = forward.Next(state, op(input, b))
//
// o is emitted. With a Wire back path and addition this is the classic
// accumulator loop around a Delay.
func FeedbackOp[X, I, O, B any](forward Machine[I, O], back Machine[O, B], op func(X, B) I) Machine[X, O] {
	return feedbackOp[X, I, O, B]{forward: forward, back: back, op: op}
}

func (f feedbackOp[X, I, O, B]) Start() State {
	return pairState{first: f.forward.Start(), second: f.back.Start()}
}

func (f feedbackOp[X, I, O, B]) Next(state State, input Opt[X]) (State, Opt[O]) {
	st := state.(pairState)
	_, out := f.forward.Next(st.first, None[I]())
	backState, fed := f.back.Next(st.second, out)

	combined := None[I]()
	if input.Valid && fed.Valid {
		combined = Some(f.op(input.V, fed.V))
	}
	forwardState, _ := f.forward.Next(st.first, combined)
	return pairState{first: forwardState, second: backState}, out
}

func (f feedbackOp[X, I, O, B]) Done(state State) bool {
	st := state.(pairState)
	return f.forward.Done(st.first) || f.back.Done(st.second)
}
