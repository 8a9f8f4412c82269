package sm

// branchState holds both children and the branch chosen on the last tick
// that carried an input.
type branchState struct {
	whenTrue  State
	whenFalse State
	useTrue   bool
}

type switchMachine[I, O any] struct {
	cond      func(I) bool
	whenTrue  Machine[I, O]
	whenFalse Machine[I, O]
}

// Switch routes each tick to whenTrue or whenFalse according to cond on the
// current input. Only the selected child advances. A tick without input goes
// to the branch selected last (whenTrue before any input).
//
// Done when either child is done on its own, possibly stale, state.
func Switch[I, O any](cond func(I) bool, whenTrue, whenFalse Machine[I, O]) Machine[I, O] {
	return switchMachine[I, O]{cond: cond, whenTrue: whenTrue, whenFalse: whenFalse}
}

func (m switchMachine[I, O]) Start() State {
	return branchState{whenTrue: m.whenTrue.Start(), whenFalse: m.whenFalse.Start(), useTrue: true}
}

func (m switchMachine[I, O]) Next(state State, input Opt[I]) (State, Opt[O]) {
	st := state.(branchState)
	if input.Valid {
		st.useTrue = m.cond(input.V)
	}

	var out Opt[O]
	if st.useTrue {
		st.whenTrue, out = m.whenTrue.Next(st.whenTrue, input)
	} else {
		st.whenFalse, out = m.whenFalse.Next(st.whenFalse, input)
	}
	return st, out
}

func (m switchMachine[I, O]) Done(state State) bool {
	st := state.(branchState)
	return m.whenTrue.Done(st.whenTrue) || m.whenFalse.Done(st.whenFalse)
}

type muxMachine[I, O any] struct {
	cond      func(I) bool
	whenTrue  Machine[I, O]
	whenFalse Machine[I, O]
}

// Mux advances both children on every tick and emits the output of the one
// selected by cond. Use it when both children must keep tracking the input
// while not selected. Selection without input follows Switch.
func Mux[I, O any](cond func(I) bool, whenTrue, whenFalse Machine[I, O]) Machine[I, O] {
	return muxMachine[I, O]{cond: cond, whenTrue: whenTrue, whenFalse: whenFalse}
}

func (m muxMachine[I, O]) Start() State {
	return branchState{whenTrue: m.whenTrue.Start(), whenFalse: m.whenFalse.Start(), useTrue: true}
}

func (m muxMachine[I, O]) Next(state State, input Opt[I]) (State, Opt[O]) {
	st := state.(branchState)
	if input.Valid {
		st.useTrue = m.cond(input.V)
	}

	var outTrue, outFalse Opt[O]
	st.whenTrue, outTrue = m.whenTrue.Next(st.whenTrue, input)
	st.whenFalse, outFalse = m.whenFalse.Next(st.whenFalse, input)
	if st.useTrue {
		return st, outTrue
	}
	return st, outFalse
}

func (m muxMachine[I, O]) Done(state State) bool {
	st := state.(branchState)
	return m.whenTrue.Done(st.whenTrue) || m.whenFalse.Done(st.whenFalse)
}

// branch records which child an If committed to.
type branch int

const (
	unresolved branch = iota
	takeTrue
	takeFalse
)

type ifState struct {
	branch branch
	inner  State
}

type ifMachine[I, O any] struct {
	cond      func(I) bool
	whenTrue  Machine[I, O]
	whenFalse Machine[I, O]
}

// If evaluates cond once, on the first input, and runs the chosen child for
// the rest of its lifetime. Ticks without input before the choice produce no
// output. Done when the chosen child is done.
func If[I, O any](cond func(I) bool, whenTrue, whenFalse Machine[I, O]) Machine[I, O] {
	return ifMachine[I, O]{cond: cond, whenTrue: whenTrue, whenFalse: whenFalse}
}

func (m ifMachine[I, O]) Start() State {
	return ifState{branch: unresolved}
}

func (m ifMachine[I, O]) Next(state State, input Opt[I]) (State, Opt[O]) {
	st := state.(ifState)
	if st.branch == unresolved {
		if !input.Valid {
			return st, None[O]()
		}
		if m.cond(input.V) {
			st = ifState{branch: takeTrue, inner: m.whenTrue.Start()}
		} else {
			st = ifState{branch: takeFalse, inner: m.whenFalse.Start()}
		}
	}

	var out Opt[O]
	if st.branch == takeTrue {
		st.inner, out = m.whenTrue.Next(st.inner, input)
	} else {
		st.inner, out = m.whenFalse.Next(st.inner, input)
	}
	return st, out
}

func (m ifMachine[I, O]) Done(state State) bool {
	st := state.(ifState)
	switch st.branch {
	case takeTrue:
		return m.whenTrue.Done(st.inner)
	case takeFalse:
		return m.whenFalse.Done(st.inner)
	default:
		return false
	}
}
