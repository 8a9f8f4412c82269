package sm

// StateFull owns one running instance of a Machine. It is not safe for
// concurrent use.
type StateFull[I, O any] struct {
	machine Machine[I, O]
	state   State
	ticks   int
}

// NewStateFull returns an instance of m positioned at its start state.
func NewStateFull[I, O any](m Machine[I, O]) *StateFull[I, O] {
	s := &StateFull[I, O]{machine: m}
	s.Reset()
	return s
}

// Reset returns the instance to the machine's start state.
func (s *StateFull[I, O]) Reset() {
	s.state = s.machine.Start()
	s.ticks = 0
}

// Step advances one tick. It does not check IsDone; stepping a finished
// machine is the caller's decision.
func (s *StateFull[I, O]) Step(input Opt[I]) Opt[O] {
	var out Opt[O]
	s.state, out = s.machine.Next(s.state, input)
	s.ticks++
	return out
}

// Feed steps with a present input.
func (s *StateFull[I, O]) Feed(v I) Opt[O] {
	return s.Step(Some(v))
}

// IsDone reports whether the current state is terminal.
func (s *StateFull[I, O]) IsDone() bool {
	return s.machine.Done(s.state)
}

// Ticks returns the number of steps since the last Reset.
func (s *StateFull[I, O]) Ticks() int {
	return s.ticks
}

// State returns the current state.
func (s *StateFull[I, O]) State() State {
	return s.state
}

// Machine returns the driven definition.
func (s *StateFull[I, O]) Machine() Machine[I, O] {
	return s.machine
}

// Transduce steps over inputs from the current state, stopping when the
// instance is done or a tick produces no output.
func (s *StateFull[I, O]) Transduce(inputs []I) []O {
	outputs := make([]O, 0, len(inputs))
	for _, in := range inputs {
		if s.IsDone() {
			break
		}
		out := s.Feed(in)
		if !out.Valid {
			break
		}
		outputs = append(outputs, out.V)
	}
	return outputs
}

// Run steps without input from the current state for at most n ticks
// (Unbounded for no limit), stopping as Transduce does.
func (s *StateFull[I, O]) Run(n int) []O {
	var outputs []O
	for n == Unbounded || len(outputs) < n {
		if s.IsDone() {
			break
		}
		out := s.Step(None[I]())
		if !out.Valid {
			break
		}
		outputs = append(outputs, out.V)
	}
	return outputs
}
