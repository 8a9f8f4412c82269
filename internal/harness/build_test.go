package harness

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fay3V/601/internal/compiler"
	"github.com/Fay3V/601/internal/sf"
	"github.com/Fay3V/601/internal/sm"
	"github.com/Fay3V/601/internal/testutil"
)

func f(v float64) *float64 { return &v }

func n(v int) *int { return &v }

func buildNode(t *testing.T, node Node) Machine {
	t.Helper()
	m, err := Build(&node, nil)
	require.NoError(t, err)
	return m
}

func TestBuild_Primitives(t *testing.T) {
	tests := []struct {
		name   string
		node   Node
		inputs []float64
		want   []float64
	}{
		{"delay", Node{Delay: f(7)}, []float64{1, 2, 3}, []float64{7, 1, 2}},
		{"incr", Node{Incr: f(1)}, []float64{1, 2}, []float64{2, 3}},
		{"gain", Node{Gain: f(-2)}, []float64{1, 2}, []float64{-2, -4}},
		{"constant", Node{Constant: f(5)}, []float64{1, 2}, []float64{5, 5}},
		{"accumulator", Node{Accumulator: f(10)}, []float64{1, 2, 3}, []float64{11, 13, 16}},
		{"wire", Node{Wire: true}, []float64{4, 5}, []float64{4, 5}},
		{"count_to", Node{CountTo: n(2)}, []float64{9, 8, 7}, []float64{9, 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := buildNode(t, tt.node)
			assert.Equal(t, tt.want, sm.Transduce(m, tt.inputs))
		})
	}
}

func TestBuild_Composition(t *testing.T) {
	tests := []struct {
		name   string
		node   Node
		inputs []float64
		want   []float64
	}{
		{
			name:   "cascade",
			node:   Node{Cascade: []Node{{Gain: f(2)}, {Incr: f(1)}}},
			inputs: []float64{1, 2},
			want:   []float64{3, 5},
		},
		{
			name:   "cascade of one",
			node:   Node{Cascade: []Node{{Gain: f(3)}}},
			inputs: []float64{1, 2},
			want:   []float64{3, 6},
		},
		{
			name:   "sum",
			node:   Node{Sum: []Node{{Gain: f(2)}, {Wire: true}, {Constant: f(1)}}},
			inputs: []float64{1, 2},
			want:   []float64{4, 7},
		},
		{
			name:   "product",
			node:   Node{Product: []Node{{Wire: true}, {Incr: f(1)}}},
			inputs: []float64{2, 3},
			want:   []float64{6, 12},
		},
		{
			name:   "feedback_add accumulates",
			node:   Node{FeedbackAdd: &Node{Delay: f(0)}},
			inputs: []float64{1, 2, 3},
			want:   []float64{0, 1, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := buildNode(t, tt.node)
			assert.Equal(t, tt.want, sm.Transduce(m, tt.inputs))
		})
	}
}

func TestBuild_FeedbackCounter(t *testing.T) {
	m := buildNode(t, Node{Feedback: &Node{Cascade: []Node{{Incr: f(1)}, {Delay: f(0)}}}})
	assert.Equal(t, []float64{0, 1, 2, 3}, sm.Run(m, 4))
}

func TestBuild_Branches(t *testing.T) {
	positive := Condition{Op: ">", Value: 0}
	branch := &Branch{When: positive, Then: &Node{Gain: f(10)}, Else: &Node{Gain: f(-1)}}

	t.Run("switch", func(t *testing.T) {
		m := buildNode(t, Node{Switch: branch})
		assert.Equal(t, []float64{10, 2, 30}, sm.Transduce(m, []float64{1, -2, 3}))
	})

	t.Run("mux", func(t *testing.T) {
		m := buildNode(t, Node{Mux: branch})
		assert.Equal(t, []float64{10, 2, 30}, sm.Transduce(m, []float64{1, -2, 3}))
	})

	t.Run("if commits on the first input", func(t *testing.T) {
		m := buildNode(t, Node{If: branch})
		assert.Equal(t, []float64{10, -20}, sm.Transduce(m, []float64{1, -2}))
	})
}

func TestBuild_Iteration(t *testing.T) {
	t.Run("seq", func(t *testing.T) {
		m := buildNode(t, Node{Seq: []Node{{CountTo: n(2)}, {Constant: f(7)}}})
		assert.Equal(t, []float64{1, 2, 7, 7}, sm.Run(m, 4))
	})

	t.Run("repeat", func(t *testing.T) {
		m := buildNode(t, Node{Repeat: &RepeatNode{Times: n(2), Node: Node{CountTo: n(2)}}})
		assert.Equal(t, []float64{1, 2, 1, 2}, sm.Run(m, sm.Unbounded))
	})

	t.Run("repeat forever", func(t *testing.T) {
		m := buildNode(t, Node{Repeat: &RepeatNode{Node: Node{CountTo: n(1)}}})
		assert.Equal(t, []float64{1, 1, 1, 1, 1}, sm.Run(m, 5))
	})

	t.Run("until", func(t *testing.T) {
		m := buildNode(t, Node{Until: &UntilNode{When: Condition{Op: ">=", Value: 3}, Node: Node{Wire: true}}})
		assert.Equal(t, []float64{1, 2, 3}, sm.Transduce(m, []float64{1, 2, 3, 4}))
	})

	t.Run("repeat_until", func(t *testing.T) {
		m := buildNode(t, Node{RepeatUntil: &UntilNode{When: Condition{Op: ">=", Value: 3}, Node: Node{CountTo: n(1)}}})
		assert.Equal(t, []float64{1, 2, 3}, sm.Transduce(m, []float64{1, 2, 3, 4}))
	})
}

func TestBuild_SystemFromCoefficients(t *testing.T) {
	m := buildNode(t, Node{System: &SystemNode{Numerator: []float64{1}, Denominator: []float64{-0.5, 1}}})
	testutil.AssertFloatsInDelta(t, []float64{1, 0.5, 0.25}, sm.Transduce(m, []float64{1, 0, 0}), 1e-12)
}

func TestBuild_SystemSeededHistory(t *testing.T) {
	m := buildNode(t, Node{System: &SystemNode{
		Numerator:   []float64{1},
		Denominator: []float64{-0.5, 1},
		PrevInputs:  []float64{},
		PrevOutputs: []float64{2},
	}})
	testutil.AssertFloatsInDelta(t, []float64{1, 0.5}, sm.Transduce(m, []float64{0, 0}), 1e-12)
}

func TestBuild_SystemFromModel(t *testing.T) {
	models, err := compiler.LoadModels(filepath.Join("testdata", "models"))
	require.NoError(t, err)

	m, err := Build(&Node{System: &SystemNode{Model: "closed"}}, models)
	require.NoError(t, err)
	testutil.AssertFloatsInDelta(t, []float64{2.0 / 3, 7.0 / 9}, sm.Transduce(m, []float64{1, 1}), 1e-12)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		node Node
		path string
	}{
		{"no kind", Node{}, "machine"},
		{"two kinds", Node{Gain: f(1), Wire: true}, "machine"},
		{"empty cascade", Node{Cascade: []Node{}}, "machine.cascade"},
		{"sum of one", Node{Sum: []Node{{Wire: true}}}, "machine.sum"},
		{"nested", Node{Cascade: []Node{{Wire: true}, {}}}, "machine.cascade[1]"},
		{"unknown op", Node{Until: &UntilNode{When: Condition{Op: "~"}, Node: Node{Wire: true}}}, "machine.until.when"},
		{"unknown model", Node{System: &SystemNode{Model: "missing"}}, "machine.system.model"},
		{"zero denominator", Node{System: &SystemNode{Numerator: []float64{1}, Denominator: []float64{0}}}, "machine.system"},
		{"history length", Node{System: &SystemNode{Numerator: []float64{1}, Denominator: []float64{-0.5, 1}, PrevOutputs: []float64{1, 2}}}, "machine.system"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(&tt.node, nil)
			require.Error(t, err)

			var be *BuildError
			require.True(t, errors.As(err, &be))
			assert.Equal(t, tt.path, be.Path)
		})
	}
}

func TestSystemFunction(t *testing.T) {
	s, ok, err := SystemFunction(&Node{System: &SystemNode{Numerator: []float64{1}, Denominator: []float64{-0.5, 1}}}, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "SF(1 / -0.5R + 1)", s.String())

	_, ok, err = SystemFunction(&Node{Wire: true}, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCondition(t *testing.T) {
	tests := []struct {
		cond Condition
		in   float64
		want bool
	}{
		{Condition{Op: "<", Value: 1}, 0, true},
		{Condition{Op: "<=", Value: 1}, 1, true},
		{Condition{Op: ">", Value: 1}, 1, false},
		{Condition{Op: ">=", Value: 1}, 1, true},
		{Condition{Op: "==", Value: 2}, 2, true},
		{Condition{Op: "!=", Value: 2}, 2, false},
		{Condition{Op: "even"}, 4, true},
		{Condition{Op: "even"}, 3, false},
		{Condition{Op: "even"}, 2.5, false},
		{Condition{Op: "odd"}, -3, true},
		{Condition{Op: "odd"}, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.cond.String(), func(t *testing.T) {
			pred, err := tt.cond.Predicate()
			require.NoError(t, err)
			assert.Equal(t, tt.want, pred(tt.in))
		})
	}
}

func TestBuild_HistoryErrorUnwraps(t *testing.T) {
	_, err := Build(&Node{System: &SystemNode{Numerator: []float64{1}, Denominator: []float64{-0.5, 1}, PrevOutputs: []float64{1, 2}}}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, sf.ErrHistoryLength)
}
