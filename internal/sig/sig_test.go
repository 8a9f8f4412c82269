package sig

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fay3V/601/internal/sf"
	"github.com/Fay3V/601/internal/sm"
)

func TestUnit(t *testing.T) {
	assert.Equal(t, []float64{0, 0, 1, 0, 0}, Samples(Unit(), -2, 5))
}

func TestStep(t *testing.T) {
	assert.Equal(t, []float64{0, 1, 1, 1}, Samples(Step(), -1, 4))
}

func TestCosine(t *testing.T) {
	c := Cosine(math.Pi/2, 0)
	got := Samples(c, 0, 4)
	want := []float64{1, 0, -1, 0}
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-12)
	}
	assert.InDelta(t, 0, Cosine(1, -math.Pi/2).Sample(0), 1e-12)
}

func TestFromSlice(t *testing.T) {
	values := []int{4, 5}
	s := FromSlice(values)
	values[0] = 9
	assert.Equal(t, []int{0, 4, 5, 0}, Samples(s, -1, 4))
}

func TestCombinators(t *testing.T) {
	assert.Equal(t, []float64{0, 3, 0}, Samples(Scale(Unit(), 3), -1, 3))
	assert.Equal(t, []float64{0, 0, 1, 0}, Samples(Delay(Unit(), 2), 0, 4))
	assert.Equal(t, []float64{0, 2, 1}, Samples(Add(Unit(), Step()), -1, 3))
	assert.Equal(t, []float64{0, 1, 1}, Samples(Sub(Step(), Unit()), 0, 3))
}

func TestPoly_FIR(t *testing.T) {
	s := Poly(Unit(), 1, -2, 0.5)
	assert.Equal(t, []float64{0, 1, -2, 0.5, 0}, Samples(s, -1, 5))

	ramp := Func[int](func(n int) int { return n })
	assert.Equal(t, []int{1, 1, 1}, Samples(Poly[int](ramp, 1, -1), 0, 3))
}

func TestAll(t *testing.T) {
	var got []float64
	for n, v := range All(Delay(Unit(), 1)) {
		if n == 3 {
			break
		}
		got = append(got, v)
	}
	assert.Equal(t, []float64{0, 1, 0}, got)
}

func TestTransduce_Accumulator(t *testing.T) {
	s := Transduce(sm.Accumulator(0.0), Step())
	assert.Equal(t, []float64{1, 2, 3, 4}, Samples(s, 0, 4))
}

func TestTransduce_ForwardReplayIsIncremental(t *testing.T) {
	s := Transduce(sm.Accumulator(0.0), Step())

	assert.Equal(t, 1.0, s.Sample(0))
	assert.Equal(t, 3.0, s.Sample(2))
	assert.Equal(t, 3.0, s.Sample(2))
	assert.Equal(t, 10.0, s.Sample(9))
	assert.Equal(t, 10, s.Steps(), "each tick computed once")
}

func TestTransduce_BackwardRebuilds(t *testing.T) {
	s := Transduce(sm.Accumulator(0.0), Step())
	assert.Equal(t, 5.0, s.Sample(4))
	assert.Equal(t, 2.0, s.Sample(1))
	assert.Equal(t, 7, s.Steps())
}

func TestTransduce_OrderIndependent(t *testing.T) {
	m := sf.Delay().Cascade(sf.Gain(0.5)).FeedbackAdd(nil).MustStateMachine()
	forward := Transduce(m, Unit())
	want := Samples(forward, 0, 10)

	shuffled := Transduce(m, Unit())
	for _, n := range []int{7, 2, 9, 0, 5, 1, 8, 3, 6, 4} {
		assert.Equal(t, want[n], shuffled.Sample(n), "index %d", n)
	}
}

func TestTransduce_SystemImpulseResponse(t *testing.T) {
	s, err := sf.FromCoeffs([]float64{1}, []float64{-0.5, 1})
	require.NoError(t, err)
	out := Transduce(s.MustStateMachine(), Unit())
	assert.Equal(t, []float64{1, 0.5, 0.25, 0.125}, Samples(out, 0, 4))
}

func TestTransduce_NoOutputPanics(t *testing.T) {
	gate := sm.Define(0, func(s int, in sm.Opt[float64]) (int, sm.Opt[float64]) {
		if in.V == 0 {
			return s, sm.None[float64]()
		}
		return s, in
	}, nil)
	s := Transduce(gate, Unit())

	assert.Equal(t, 1.0, s.Sample(0))

	var err error
	func() {
		defer sm.Recover(&err)
		s.Sample(1)
	}()
	assert.True(t, sm.HasCode(err, sm.ErrCodeNoOutput))
}

func TestTransduce_NegativeIndexPanics(t *testing.T) {
	s := Transduce(sm.Wire[float64](), Unit())
	var err error
	func() {
		defer sm.Recover(&err)
		s.Sample(-1)
	}()
	assert.True(t, sm.HasCode(err, sm.ErrCodeNoOutput))
}
