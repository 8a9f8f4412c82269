package sm

// Forever is the repetition count of an unbounded Repeat.
const Forever = -1

type repeatState struct {
	count int
	inner State
}

type repeat[I, O any] struct {
	machine Machine[I, O]
	times   int
}

// Repeat restarts m from its start state each time it finishes, until it
// has completed times runs. times == Forever never finishes.
//
// The restart happens on the tick m finishes, at most once per tick, so Done
// is accurate right after the step that completes the last run.
func Repeat[I, O any](m Machine[I, O], times int) Machine[I, O] {
	return repeat[I, O]{machine: m, times: times}
}

func (r repeat[I, O]) Start() State {
	return repeatState{count: 0, inner: r.machine.Start()}
}

func (r repeat[I, O]) Next(state State, input Opt[I]) (State, Opt[O]) {
	st := state.(repeatState)
	inner, out := r.machine.Next(st.inner, input)
	st.inner = inner
	if r.machine.Done(inner) {
		st.count++
		if !r.exhausted(st.count) {
			st.inner = r.machine.Start()
		}
	}
	return st, out
}

func (r repeat[I, O]) Done(state State) bool {
	return r.exhausted(state.(repeatState).count)
}

func (r repeat[I, O]) exhausted(count int) bool {
	return r.times != Forever && count >= r.times
}

// condState remembers whether the condition held on the last input.
type condState struct {
	cond  bool
	inner State
}

type until[I, O any] struct {
	cond    func(I) bool
	machine Machine[I, O]
}

// Until runs m once and stops early when cond holds on an input. Done when
// cond held on the last tick's input or m is done.
func Until[I, O any](cond func(I) bool, m Machine[I, O]) Machine[I, O] {
	return until[I, O]{cond: cond, machine: m}
}

func (u until[I, O]) Start() State {
	return condState{cond: false, inner: u.machine.Start()}
}

func (u until[I, O]) Next(state State, input Opt[I]) (State, Opt[O]) {
	st := state.(condState)
	inner, out := u.machine.Next(st.inner, input)
	return condState{cond: input.Valid && u.cond(input.V), inner: inner}, out
}

func (u until[I, O]) Done(state State) bool {
	st := state.(condState)
	return st.cond || u.machine.Done(st.inner)
}

type repeatUntil[I, O any] struct {
	cond    func(I) bool
	machine Machine[I, O]
}

// RepeatUntil runs m repeatedly. When m finishes on a tick whose input does
// not satisfy cond it is restarted; the composite is done only when m
// finishes on a tick where cond held. cond alone never interrupts a run.
func RepeatUntil[I, O any](cond func(I) bool, m Machine[I, O]) Machine[I, O] {
	return repeatUntil[I, O]{cond: cond, machine: m}
}

func (r repeatUntil[I, O]) Start() State {
	return condState{cond: false, inner: r.machine.Start()}
}

func (r repeatUntil[I, O]) Next(state State, input Opt[I]) (State, Opt[O]) {
	st := state.(condState)
	inner, out := r.machine.Next(st.inner, input)
	held := input.Valid && r.cond(input.V)
	if r.machine.Done(inner) && !held {
		inner = r.machine.Start()
	}
	return condState{cond: held, inner: inner}, out
}

func (r repeatUntil[I, O]) Done(state State) bool {
	st := state.(condState)
	return st.cond && r.machine.Done(st.inner)
}
