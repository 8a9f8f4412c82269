package sm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var pulses = []int{1, 0, 2, 0, 0, 3, 0, 0, 0, 4}

func TestDelay_OutputsHeldValue(t *testing.T) {
	out := Transduce(Delay(7), []int{1, 2, 3})
	assert.Equal(t, []int{7, 1, 2}, out)
}

func TestDelay_NoInputStillOutputsHeldValue(t *testing.T) {
	m := Delay(3)
	state, out := m.Next(m.Start(), None[int]())
	assert.Equal(t, Some(3), out)

	_, out = m.Next(state, Some(9))
	assert.False(t, out.Valid, "held value was consumed by the input-less tick")
}

func TestAccumulator_RunningSum(t *testing.T) {
	assert.Equal(t, []int{1, 1, 3, 3, 3, 6, 6, 6, 6, 10}, Transduce(Accumulator(0), pulses))
}

func TestAccumulator_NoInputNoOutput(t *testing.T) {
	m := Accumulator(5)
	state, out := m.Next(m.Start(), None[int]())
	assert.False(t, out.Valid)
	assert.Equal(t, 5, state)
}

func TestIncr_AddsConstant(t *testing.T) {
	assert.Equal(t, []int{2, 1, 3, 1, 1, 4, 1, 1, 1, 5}, Transduce(Incr(1), pulses))
}

func TestGain_Scales(t *testing.T) {
	assert.Equal(t, []float64{0.5, 1, -2}, Transduce(Gain(0.5), []float64{1, 2, -4}))
}

func TestFunc_AbsentInputAbsentOutput(t *testing.T) {
	m := Func(double)
	_, out := m.Next(m.Start(), None[int]())
	assert.False(t, out.Valid)
	assert.Empty(t, Run(m, 5), "self-clocked pure function stops at the first tick")
}

func TestConstant_IgnoresInput(t *testing.T) {
	assert.Equal(t, []int{2, 2, 2}, Run(Constant[int](2), 3))
}

func TestAdder_SumsPairs(t *testing.T) {
	in := []Pair[int, int]{PairOf(1, 3), PairOf(0, 2), PairOf(0, 0), PairOf(3, -4)}
	assert.Equal(t, []int{4, 2, 0, -1}, Transduce(Adder[int](), in))
}

func TestMultiplier_MultipliesPairs(t *testing.T) {
	in := []Pair[float64, float64]{PairOf(2.0, 3.0), PairOf(-1.0, 4.0)}
	assert.Equal(t, []float64{6, -4}, Transduce(Multiplier[float64](), in))
}

func TestCountTo_DoneAfterN(t *testing.T) {
	assert.Equal(t, []float64{1, 2, 3}, Run(CountTo[float64](3), Unbounded))
	assert.Equal(t, []int{9, 8}, Transduce(CountTo[int](2), []int{9, 8, 7, 6}))
}

func TestDefine_AbcRecognizer(t *testing.T) {
	const (
		readA = iota
		readB
		readC
		stop
	)
	expect := map[int]rune{readA: 'a', readB: 'b', readC: 'c'}
	abc := Define(readA, func(s int, in Opt[rune]) (int, Opt[bool]) {
		if !in.Valid {
			return stop, None[bool]()
		}
		want, ok := expect[s]
		if !ok || in.V != want {
			return stop, Some(false)
		}
		return (s + 1) % 3, Some(true)
	}, nil)

	assert.Equal(t, []bool{true, false, false}, Transduce(abc, []rune("aaa")))
	assert.Equal(t, []bool{true, true, true, true, false, false, false}, Transduce(abc, []rune("abcacba")))
}

func TestDefine_NilDoneNeverFinishes(t *testing.T) {
	m := Define(0, func(s int, _ Opt[int]) (int, Opt[int]) { return s + 1, Some(s) }, nil)
	assert.False(t, m.Done(1_000_000))
	assert.Len(t, Run(m, 100), 100)
}

func TestDefine_Average2(t *testing.T) {
	avg := Define(Some(0), func(prev Opt[int], in Opt[int]) (Opt[int], Opt[float64]) {
		if !prev.Valid || !in.Valid {
			return in, None[float64]()
		}
		return in, Some(float64(prev.V+in.V) / 2)
	}, nil)
	assert.Equal(t, []float64{5, 7.5, 3.5, 6}, Transduce(avg, []int{10, 5, 2, 10}))
}
