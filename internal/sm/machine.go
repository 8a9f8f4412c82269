package sm

// State is the opaque value one machine instance threads through its
// transitions. A State is owned by the combinator node that created it and is
// replaced, never mutated, on each transition. States holding slices or maps
// must be copied before modification.
type State = any

// Machine is a discrete-time transducer definition.
//
// Contract:
//   - Start returns a fresh start state
//   - Next is deterministic: same (state, input) gives the same result
//   - Next receives None when no external value drives this tick
//   - Done reports a terminal state; drivers stop stepping once it holds
type Machine[I, O any] interface {
	Start() State
	Next(state State, input Opt[I]) (State, Opt[O])
	Done(state State) bool
}

// defined is a Machine over a concrete state type S.
type defined[S, I, O any] struct {
	start S
	next  func(S, Opt[I]) (S, Opt[O])
	done  func(S) bool
}

// Define builds a Machine from a start state value and a typed transition.
// done may be nil, in which case the machine never finishes.
//
// S must not be an interface type; the start value is copied into every
// fresh start state.
func Define[S, I, O any](start S, next func(S, Opt[I]) (S, Opt[O]), done func(S) bool) Machine[I, O] {
	return defined[S, I, O]{start: start, next: next, done: done}
}

func (d defined[S, I, O]) Start() State {
	return d.start
}

func (d defined[S, I, O]) Next(state State, input Opt[I]) (State, Opt[O]) {
	next, out := d.next(state.(S), input)
	return next, out
}

func (d defined[S, I, O]) Done(state State) bool {
	if d.done == nil {
		return false
	}
	return d.done(state.(S))
}
