package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_Accumulate(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "accumulate.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "accumulate", s.Name)
	require.NotNil(t, s.Machine.FeedbackAdd)
	require.Len(t, s.Machine.FeedbackAdd.Cascade, 1)
	assert.Equal(t, 0.0, *s.Machine.FeedbackAdd.Cascade[0].Delay)

	require.Len(t, s.Inputs, 5)
	assert.Nil(t, s.Inputs[3])
	assert.Equal(t, 4.0, *s.Inputs[4])
	assert.Equal(t, 5, s.Ticks())

	require.Len(t, s.Expect.Outputs, 5)
	assert.Nil(t, s.Expect.Outputs[4])
}

func TestLoadScenario_ResolvesModels(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "closed_loop.yaml"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("testdata", "models"), s.Models)
	assert.Equal(t, "closed", s.Machine.System.Model)
	assert.Equal(t, "closed-loop-fixed", s.RunID)
	require.Len(t, s.Expect.Poles, 1)
	require.NotNil(t, s.Expect.Stable)
	assert.True(t, *s.Expect.Stable)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join("testdata", "scenarios", "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown field",
			yaml: "name: x\ndescription: y\nmachine: {wire: true}\ninput: [1]\n",
			want: "failed to parse YAML",
		},
		{
			name: "unknown node field",
			yaml: "name: x\ndescription: y\nmachine: {wires: true}\ninputs: [1]\n",
			want: "failed to parse YAML",
		},
		{
			name: "missing name",
			yaml: "description: y\nmachine: {wire: true}\ninputs: [1]\n",
			want: "name is required",
		},
		{
			name: "missing description",
			yaml: "name: x\nmachine: {wire: true}\ninputs: [1]\n",
			want: "description is required",
		},
		{
			name: "no machine",
			yaml: "name: x\ndescription: y\ninputs: [1]\n",
			want: "machine: node has no kind",
		},
		{
			name: "two kinds",
			yaml: "name: x\ndescription: y\nmachine: {wire: true, gain: 2}\ninputs: [1]\n",
			want: "several kinds",
		},
		{
			name: "no ticks",
			yaml: "name: x\ndescription: y\nmachine: {wire: true}\n",
			want: "either inputs or a positive steps count",
		},
		{
			name: "inputs and steps",
			yaml: "name: x\ndescription: y\nmachine: {wire: true}\ninputs: [1]\nsteps: 3\n",
			want: "mutually exclusive",
		},
		{
			name: "bad op",
			yaml: "name: x\ndescription: y\nmachine: {until: {when: {op: '=<'}, node: {wire: true}}}\ninputs: [1]\n",
			want: "machine.until.when",
		},
		{
			name: "branch without else",
			yaml: "name: x\ndescription: y\nmachine: {switch: {when: {op: even}, then: {wire: true}}}\ninputs: [1]\n",
			want: "machine.switch.else: is required",
		},
		{
			name: "short sum",
			yaml: "name: x\ndescription: y\nmachine: {sum: [{wire: true}]}\ninputs: [1]\n",
			want: "needs at least 2 machines",
		},
		{
			name: "system without coefficients",
			yaml: "name: x\ndescription: y\nmachine: {system: {numerator: [1]}}\ninputs: [1]\n",
			want: "needs a model or both numerator and denominator",
		},
		{
			name: "negative tolerance",
			yaml: "name: x\ndescription: y\nmachine: {wire: true}\ninputs: [1]\nexpect: {tolerance: -1}\n",
			want: "tolerance must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseScenario_NestedTree(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: nested
description: "every kind of composite parses"
machine:
  seq:
    - repeat:
        times: 2
        node: {count_to: 2}
    - repeat_until:
        when: {op: ">=", value: 10}
        node:
          if:
            when: {op: odd}
            then: {product: [{wire: true}, {constant: 3}]}
            else: {mux: {when: {op: "<", value: 0}, then: {incr: 1}, else: {feedback: {delay: 0}}}}
steps: 4
`))
	require.NoError(t, err)

	require.Len(t, s.Machine.Seq, 2)
	assert.Equal(t, 2, *s.Machine.Seq[0].Repeat.Times)
	ru := s.Machine.Seq[1].RepeatUntil
	require.NotNil(t, ru)
	assert.Equal(t, ">=", ru.When.Op)
	assert.Equal(t, 10.0, ru.When.Value)
	require.NotNil(t, ru.Node.If)
	assert.Len(t, ru.Node.If.Then.Product, 2)
	assert.NotNil(t, ru.Node.If.Else.Mux.Else.Feedback)

	_, err = Build(&s.Machine, nil)
	assert.NoError(t, err)
}
