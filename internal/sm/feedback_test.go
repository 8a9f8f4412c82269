package sm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeedback_Counter(t *testing.T) {
	m := Feedback(Cascade(Incr(1), Delay(0)))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, Run(m, 10))
}

func TestFeedback_WellFormedAroundDelay(t *testing.T) {
	tests := []struct {
		name string
		k, v int
	}{
		{"unit step", 1, 0},
		{"offset", 3, -4},
		{"zero gain", 0, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Run(Feedback(Cascade(Incr(tt.k), Delay(tt.v))), 10)
			assert.Len(t, out, 10)
			for i, got := range out {
				assert.Equal(t, tt.v+i*tt.k, got, "tick %d", i)
			}
		})
	}
}

func TestFeedback_IgnoresExternalInput(t *testing.T) {
	m := Feedback(Cascade(Incr(1), Delay(0)))
	assert.Equal(t, []int{0, 1, 2}, Transduce(m, []int{100, 200, 300}))
}

func TestFeedback_Fibonacci(t *testing.T) {
	want := []int{1, 2, 3, 5, 8, 13, 21, 34, 55, 89}

	twoDelays := Feedback(Cascade(
		Parallel(Delay(1), Cascade(Delay(1), Delay(0))),
		Adder[int](),
	))
	assert.Equal(t, want, Run(twoDelays, 10))

	delayedSum := Feedback(Chain(
		Cascade(Parallel(Delay(1), Wire[int]()), Adder[int]()),
		Delay(1),
	))
	assert.Equal(t, want, Run(delayedSum, 10))
}

func TestFeedback_Doubling(t *testing.T) {
	want := []int{1, 2, 4, 8, 16, 32, 64, 128, 256, 512, 1024}

	m := Feedback(Chain(
		Cascade(Parallel(Constant[int](2), Wire[int]()), Multiplier[int]()),
		Delay(1),
	))
	assert.Equal(t, want, Run(m, 11))
}

func TestFeedback2_Doubling(t *testing.T) {
	want := []int{1, 2, 4, 8, 16, 32, 64, 128, 256, 512, 1024}

	m := Cascade(
		Constant[int](2),
		Feedback2(Cascade(Multiplier[int](), Delay(1))),
	)
	assert.Equal(t, want, Run(m, 11))
}

func TestFeedback2_NoInputStarvesLoop(t *testing.T) {
	m := Feedback2(Cascade(Multiplier[int](), Delay(1)))
	assert.Equal(t, []int{1}, Run(m, 5), "absent input leaves nothing to hold")
}

func TestFeedbackOp_RunningSum(t *testing.T) {
	m := FeedbackOp(Delay(0), Wire[int](), func(x, b int) int { return x + b })
	assert.Equal(t, []int{0, 0, 1, 3, 6, 10, 15, 21, 28, 36}, Transduce(m, ints(0, 10)))
}

func TestFeedbackOp_Factorial(t *testing.T) {
	add := func(x, b int) int { return x + b }
	mul := func(x, b int) int { return x * b }
	counter := FeedbackOp(Delay(1), Wire[int](), add)
	fac := FeedbackOp(Delay(1), Wire[int](), mul)

	ones := make([]int, 11)
	for i := range ones {
		ones[i] = 1
	}
	want := []int{1, 1, 2, 6, 24, 120, 720, 5040, 40320, 362880, 3628800}
	assert.Equal(t, want, Transduce(Cascade(counter, fac), ones))
}

func TestFeedbackOp_ThroughGain(t *testing.T) {
	// y[n] = x[n-1] - 0.5 y[n-1]
	m := FeedbackOp(Delay(0.0), Gain(-0.5), func(x, b float64) float64 { return x + b })
	assert.Equal(t, []float64{0, 1, -0.5, 0.25}, Transduce(m, []float64{1, 0, 0, 0}))
}
