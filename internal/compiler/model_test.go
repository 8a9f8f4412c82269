package compiler

import (
	"errors"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileString(t *testing.T, src string) ([]Model, error) {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	require.NoError(t, v.Err())
	return CompileModels(v)
}

func names(models []Model) []string {
	out := make([]string, len(models))
	for i, m := range models {
		out[i] = m.Name
	}
	return out
}

func TestCompileModels_Rational(t *testing.T) {
	models, err := compileString(t, `
		system: plant: {numerator: [1], denominator: [-0.5, 1]}
	`)
	require.NoError(t, err)
	require.Len(t, models, 1)

	assert.Equal(t, "plant", models[0].Name)
	assert.Equal(t, KindRational, models[0].Kind)
	assert.Equal(t, "SF(1 / -0.5R + 1)", models[0].System.String())
}

func TestCompileModels_IntegerCoefficients(t *testing.T) {
	models, err := compileString(t, `
		system: twice: {numerator: [2], denominator: [1]}
	`)
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, models[0].System.Numerator().Coeffs())
}

func TestCompileModels_DependencyOrder(t *testing.T) {
	models, err := compileString(t, `
		system: {
			closed: {feedback: "open", sign: "sub"}
			open: {cascade: ["controller", "plant"]}
			plant: {numerator: [1], denominator: [-0.5, 1]}
			controller: {gain: 2}
			sensor: {delay: true}
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, []string{"controller", "plant", "open", "closed", "sensor"}, names(models))

	closed, ok := Find(models, "closed")
	require.True(t, ok)
	assert.Equal(t, KindFeedback, closed.Kind)
	assert.Equal(t, "SF(2 / -0.5R + 3)", closed.System.String())

	poles := closed.System.Poles()
	require.Len(t, poles, 1)
	assert.InDelta(t, 1.0/6, poles[0].Re, 1e-12)

	sensor, ok := Find(models, "sensor")
	require.True(t, ok)
	assert.Equal(t, "SF(R / 1)", sensor.System.String())
}

func TestCompileModels_FeedbackThrough(t *testing.T) {
	models, err := compileString(t, `
		system: {
			plant: {numerator: [1], denominator: [-0.5, 1]}
			sensor: {delay: true}
			loop: {feedback: "plant", through: "sensor"}
		}
	`)
	require.NoError(t, err)

	loop, ok := Find(models, "loop")
	require.True(t, ok)
	assert.Equal(t, "SF(1 / 0.5R + 1)", loop.System.String())

	poles := loop.System.Poles()
	require.Len(t, poles, 1)
	assert.InDelta(t, -0.5, poles[0].Re, 1e-12)
}

func TestCompileModels_FeedbackAdd(t *testing.T) {
	models, err := compileString(t, `
		system: {
			half: {gain: 0.5}
			loop: {feedback: "half", sign: "add"}
		}
	`)
	require.NoError(t, err)

	loop, _ := Find(models, "loop")
	assert.Equal(t, "SF(0.5 / 0.5)", loop.System.String())
}

func TestCompileModels_Sum(t *testing.T) {
	models, err := compileString(t, `
		system: {
			a: {gain: 2}
			b: {delay: true}
			both: {sum: ["a", "b"]}
		}
	`)
	require.NoError(t, err)

	both, _ := Find(models, "both")
	assert.Equal(t, KindSum, both.Kind)
	assert.Equal(t, "SF(R + 2 / 1)", both.System.String())
}

func TestCompileModels_UnknownReference(t *testing.T) {
	_, err := compileString(t, `
		system: open: {cascade: ["missing"]}
	`)
	require.Error(t, err)

	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "system.open.cascade", ce.Field)
	assert.Contains(t, ce.Message, `"missing"`)
}

func TestCompileModels_Cycle(t *testing.T) {
	_, err := compileString(t, `
		system: {
			a: {cascade: ["b"]}
			b: {feedback: "a"}
		}
	`)
	require.Error(t, err)

	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Message, "reference cycle")
	assert.Contains(t, ce.Message, "a")
	assert.Contains(t, ce.Message, "b")
}

func TestCompileModels_SelfReference(t *testing.T) {
	_, err := compileString(t, `
		system: loop: {feedback: "loop"}
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reference cycle: loop -> loop")
}

func TestCompileModels_SchemaViolation(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"string coefficients", `system: p: {numerator: "1", denominator: [1]}`},
		{"empty denominator", `system: p: {numerator: [1], denominator: []}`},
		{"unknown field", `system: p: {gain: 2, offset: 1}`},
		{"bad sign", `system: {a: {gain: 2}, l: {feedback: "a", sign: "mul"}}`},
		{"sum of one", `system: {a: {gain: 2}, s: {sum: ["a"]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileString(t, tt.src)
			assert.Error(t, err)
		})
	}
}

func TestCompileModels_ZeroGain(t *testing.T) {
	_, err := compileString(t, `system: g: {gain: 0}`)
	require.Error(t, err)

	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "system.g.gain", ce.Field)
}

func TestCompileModels_ZeroNumerator(t *testing.T) {
	_, err := compileString(t, `system: p: {numerator: [0], denominator: [1]}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "numerator")
}

func TestCompileModels_CancellingSum(t *testing.T) {
	_, err := compileString(t, `
		system: {
			a: {gain: 1}
			b: {gain: -1}
			s: {sum: ["a", "b"]}
		}
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zero polynomial")
}

func TestCompileModels_NoSystem(t *testing.T) {
	_, err := compileString(t, `other: 1`)
	require.Error(t, err)

	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "system", ce.Field)
}

func TestCompileModels_InvalidValue(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`system: p: {gain: 1 & 2}`)
	_, err := CompileModels(v)
	assert.Error(t, err)
}

func TestLoadModels_Directory(t *testing.T) {
	models, err := LoadModels(filepath.Join("testdata", "models"))
	require.NoError(t, err)
	assert.Len(t, models, 6)

	position := make(map[string]int, len(models))
	for i, m := range models {
		position[m.Name] = i
	}
	assert.Less(t, position["controller"], position["open"])
	assert.Less(t, position["plant"], position["open"])
	assert.Less(t, position["open"], position["closed"])
	assert.Less(t, position["sensor"], position["delayed"])

	closed, ok := Find(models, "closed")
	require.True(t, ok)
	assert.Equal(t, "SF(2 / -0.5R + 3)", closed.System.String())
}

func TestLoadModels_MissingDirectory(t *testing.T) {
	_, err := LoadModels(filepath.Join("testdata", "nope"))
	assert.Error(t, err)
}

func TestLoadModels_NoFiles(t *testing.T) {
	_, err := LoadModels(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no CUE files")
}

func TestFind_Missing(t *testing.T) {
	_, ok := Find(nil, "x")
	assert.False(t, ok)
}
