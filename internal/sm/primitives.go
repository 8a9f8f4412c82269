package sm

import "golang.org/x/exp/constraints"

// Number is the set of scalar types the arithmetic primitives accept.
type Number interface {
	constraints.Integer | constraints.Float
}

type none struct{}

// Func lifts a pure function into a stateless machine. An absent input
// produces an absent output.
func Func[I, O any](f func(I) O) Machine[I, O] {
	return Define(none{}, func(s none, in Opt[I]) (none, Opt[O]) {
		return s, MapOpt(in, f)
	}, nil)
}

// Wire passes its input through unchanged.
func Wire[T any]() Machine[T, T] {
	return Func(func(v T) T { return v })
}

// Gain multiplies its input by k.
func Gain[T Number](k T) Machine[T, T] {
	return Func(func(v T) T { return k * v })
}

// Incr adds k to its input.
func Incr[T Number](k T) Machine[T, T] {
	return Func(func(v T) T { return v + k })
}

// Constant ignores its input and always outputs v.
func Constant[I, O any](v O) Machine[I, O] {
	return Define(none{}, func(s none, _ Opt[I]) (none, Opt[O]) {
		return s, Some(v)
	}, nil)
}

// Delay is the unit delay (R). It outputs the value it holds, whether or not
// an input is present, and holds the current input for the next tick. The
// output therefore depends on state alone, which makes Delay the element
// that breaks feedback loops.
func Delay[T any](initial T) Machine[T, T] {
	return Define(Some(initial), func(held Opt[T], in Opt[T]) (Opt[T], Opt[T]) {
		return in, held
	}, nil)
}

// Adder sums the two halves of its pair input.
func Adder[T Number]() Machine[Pair[T, T], T] {
	return Func(func(p Pair[T, T]) T { return p.First + p.Second })
}

// Multiplier multiplies the two halves of its pair input.
func Multiplier[T Number]() Machine[Pair[T, T], T] {
	return Func(func(p Pair[T, T]) T { return p.First * p.Second })
}

// Accumulator outputs the running sum of its inputs, starting from initial.
// Ticks without input leave the sum unchanged and output nothing.
func Accumulator[T Number](initial T) Machine[T, T] {
	return Define(initial, func(sum T, in Opt[T]) (T, Opt[T]) {
		if !in.Valid {
			return sum, None[T]()
		}
		sum += in.V
		return sum, Some(sum)
	}, nil)
}

// CountTo outputs its input (or the tick count when no input is given) for
// n ticks and is then done.
func CountTo[T Number](n int) Machine[T, T] {
	return Define(0, func(ticks int, in Opt[T]) (int, Opt[T]) {
		ticks++
		if in.Valid {
			return ticks, in
		}
		return ticks, Some(T(ticks))
	}, func(ticks int) bool { return ticks >= n })
}
