package sm

// pairState is the composite state of a two-child combinator.
type pairState struct {
	first  State
	second State
}

type cascade[I, M, O any] struct {
	first  Machine[I, M]
	second Machine[M, O]
}

// Cascade feeds the output of first into second on every tick.
// The composite is done when either child is done.
func Cascade[I, M, O any](first Machine[I, M], second Machine[M, O]) Machine[I, O] {
	return cascade[I, M, O]{first: first, second: second}
}

func (c cascade[I, M, O]) Start() State {
	return pairState{first: c.first.Start(), second: c.second.Start()}
}

func (c cascade[I, M, O]) Next(state State, input Opt[I]) (State, Opt[O]) {
	st := state.(pairState)
	s1, mid := c.first.Next(st.first, input)
	s2, out := c.second.Next(st.second, mid)
	return pairState{first: s1, second: s2}, out
}

func (c cascade[I, M, O]) Done(state State) bool {
	st := state.(pairState)
	return c.first.Done(st.first) || c.second.Done(st.second)
}

// Chain cascades machines of a single type, left to right.
func Chain[T any](first Machine[T, T], rest ...Machine[T, T]) Machine[T, T] {
	m := first
	for _, next := range rest {
		m = Cascade(m, next)
	}
	return m
}

type parallel[I, O1, O2 any] struct {
	left  Machine[I, O1]
	right Machine[I, O2]
}

// Parallel feeds the same input to both machines. The output is present only
// when both children produce one this tick. Done when either child is done.
func Parallel[I, O1, O2 any](left Machine[I, O1], right Machine[I, O2]) Machine[I, Pair[O1, O2]] {
	return parallel[I, O1, O2]{left: left, right: right}
}

func (p parallel[I, O1, O2]) Start() State {
	return pairState{first: p.left.Start(), second: p.right.Start()}
}

func (p parallel[I, O1, O2]) Next(state State, input Opt[I]) (State, Opt[Pair[O1, O2]]) {
	st := state.(pairState)
	s1, o1 := p.left.Next(st.first, input)
	s2, o2 := p.right.Next(st.second, input)
	return pairState{first: s1, second: s2}, Zip(o1, o2)
}

func (p parallel[I, O1, O2]) Done(state State) bool {
	st := state.(pairState)
	return p.left.Done(st.first) || p.right.Done(st.second)
}

type parallel2[I1, I2, O1, O2 any] struct {
	left  Machine[I1, O1]
	right Machine[I2, O2]
}

// Parallel2 splits a pair input: the first half drives left, the second
// half drives right. Output and completion follow Parallel.
func Parallel2[I1, I2, O1, O2 any](left Machine[I1, O1], right Machine[I2, O2]) Machine[Pair[I1, I2], Pair[O1, O2]] {
	return parallel2[I1, I2, O1, O2]{left: left, right: right}
}

func (p parallel2[I1, I2, O1, O2]) Start() State {
	return pairState{first: p.left.Start(), second: p.right.Start()}
}

func (p parallel2[I1, I2, O1, O2]) Next(state State, input Opt[Pair[I1, I2]]) (State, Opt[Pair[O1, O2]]) {
	st := state.(pairState)
	i1, i2 := Unzip(input)
	s1, o1 := p.left.Next(st.first, i1)
	s2, o2 := p.right.Next(st.second, i2)
	return pairState{first: s1, second: s2}, Zip(o1, o2)
}

func (p parallel2[I1, I2, O1, O2]) Done(state State) bool {
	st := state.(pairState)
	return p.left.Done(st.first) || p.right.Done(st.second)
}

// ParallelAdd runs two machines in parallel and sums their outputs.
func ParallelAdd[I any, T Number](left, right Machine[I, T]) Machine[I, T] {
	return Cascade(Parallel(left, right), Adder[T]())
}
