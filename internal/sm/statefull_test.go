package sm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateFull_ConsumeFive(t *testing.T) {
	s := NewStateFull(consumeFive())

	for i := 0; i < 4; i++ {
		assert.Equal(t, Some(None[int]()), s.Feed(1), "step %d", i)
		assert.False(t, s.IsDone())
	}

	assert.Equal(t, Some(Some(5)), s.Feed(1))
	assert.True(t, s.IsDone())

	assert.Equal(t, Some(Some(5)), s.Feed(1), "stepping past done is allowed")
	assert.True(t, s.IsDone())
	assert.Equal(t, 6, s.Ticks())
}

func TestStateFull_TransduceStopsWhenDone(t *testing.T) {
	s := NewStateFull(consumeFive())
	n := None[int]()
	assert.Equal(t, []Opt[int]{n, n, n, n, Some(15)}, s.Transduce(ints(1, 10)))
	assert.Equal(t, 5, s.Ticks())
}

func TestStateFull_Reset(t *testing.T) {
	s := NewStateFull(Accumulator(0))
	assert.Equal(t, []int{1, 3, 6}, s.Transduce([]int{1, 2, 3}))

	s.Reset()
	assert.Equal(t, 0, s.Ticks())
	assert.Equal(t, 0, s.State())
	assert.Equal(t, []int{4}, s.Transduce([]int{4}))
}

func TestStateFull_ContinuesFromCurrentState(t *testing.T) {
	s := NewStateFull(Feedback(Cascade(Incr(1), Delay(0))))
	assert.Equal(t, []int{0, 1, 2}, s.Run(3))
	assert.Equal(t, []int{3, 4}, s.Run(2))
}

func TestStateFull_RunStopsAtAbsentOutput(t *testing.T) {
	s := NewStateFull(Incr(1))
	assert.Empty(t, s.Run(Unbounded))
	assert.Equal(t, 1, s.Ticks())
}

func TestStateFull_MissingInputPanics(t *testing.T) {
	s := NewStateFull(consumeFive())

	var err error
	func() {
		defer Recover(&err)
		s.Step(None[int]())
	}()
	require.Error(t, err)
	assert.True(t, IsInvariantError(err))
	assert.True(t, HasCode(err, ErrCodeMissingInput))
}
