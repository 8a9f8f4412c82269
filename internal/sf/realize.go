package sf

import (
	"slices"
	"strconv"

	"github.com/Fay3V/601/internal/sm"
)

// Recurrence is the difference equation of a system:
//
//	y[n] = Σ Feedforward[k]·x[n-k] + Σ Feedback[k]·y[n-1-k]
type Recurrence struct {
	// Feedforward weights x[n], x[n-1], ...
	Feedforward []float64 `json:"feedforward"`

	// Feedback weights y[n-1], y[n-2], ...
	Feedback []float64 `json:"feedback"`
}

// InputTaps is the number of past inputs the recurrence reads.
func (r Recurrence) InputTaps() int {
	return max(len(r.Feedforward)-1, 0)
}

// OutputTaps is the number of past outputs the recurrence reads.
func (r Recurrence) OutputTaps() int {
	return len(r.Feedback)
}

// DifferenceEquation derives the direct-form recurrence of s. The
// feedforward weights are the numerator in ascending powers of R, the
// feedback weights the denominator in ascending powers without its R⁰ term,
// negated; both are normalized by the R⁰ coefficient.
//
// Coefficients are stored highest power of R first, so the denominator
// 1 - 0.5R is [-0.5, 1] and gives Feedback [0.5]. Passing the list in
// ascending order instead ([1, -0.5]) describes R - 0.5, a different system.
func (s SystemFunction) DifferenceEquation() (Recurrence, error) {
	den := s.den.Coeffs()
	slices.Reverse(den)
	d0 := den[0]
	if d0 == 0 {
		return Recurrence{}, ErrNonCausal
	}

	ff := s.num.Coeffs()
	slices.Reverse(ff)
	for i := range ff {
		ff[i] /= d0
	}

	fb := make([]float64, len(den)-1)
	for i, d := range den[1:] {
		fb[i] = -d / d0
	}
	return Recurrence{Feedforward: ff, Feedback: fb}, nil
}

// history holds the recent values of a filter, newest first.
type history struct {
	inputs  []float64
	outputs []float64
}

// StateMachine realizes s as a direct-form IIR filter. prevInputs and
// prevOutputs seed the histories (newest first) and default to zeros when
// nil; their lengths must equal the recurrence's InputTaps and OutputTaps.
//
// Each tick with an input x computes
//
//	y = ff[0]·x + dot(ff[1:], inputs) + dot(fb, outputs)
//
// and shifts x and y into the histories, discarding the oldest entries. A
// tick without input leaves the state unchanged; it outputs y computed from
// the histories alone when ff[0] is zero (the system has a pure delay, as in
// a feedback loop) and nothing otherwise.
func (s SystemFunction) StateMachine(prevInputs, prevOutputs []float64) (sm.Machine[float64, float64], error) {
	rec, err := s.DifferenceEquation()
	if err != nil {
		return nil, err
	}
	start, err := rec.seed(prevInputs, prevOutputs)
	if err != nil {
		return nil, err
	}
	return sm.Define(start, rec.step, nil), nil
}

// MustStateMachine is like StateMachine with zero histories but panics on
// error.
func (s SystemFunction) MustStateMachine() sm.Machine[float64, float64] {
	m, err := s.StateMachine(nil, nil)
	if err != nil {
		panic(err)
	}
	return m
}

func (r Recurrence) seed(prevInputs, prevOutputs []float64) (history, error) {
	h := history{
		inputs:  make([]float64, r.InputTaps()),
		outputs: make([]float64, r.OutputTaps()),
	}
	if prevInputs != nil {
		if len(prevInputs) != len(h.inputs) {
			return history{}, historyError("inputs", len(prevInputs), len(h.inputs))
		}
		copy(h.inputs, prevInputs)
	}
	if prevOutputs != nil {
		if len(prevOutputs) != len(h.outputs) {
			return history{}, historyError("outputs", len(prevOutputs), len(h.outputs))
		}
		copy(h.outputs, prevOutputs)
	}
	return h, nil
}

func historyError(which string, got, want int) error {
	return &HistoryError{Which: which, Got: got, Want: want}
}

// HistoryError reports a seed history of the wrong length. It matches
// ErrHistoryLength with errors.Is.
type HistoryError struct {
	Which string
	Got   int
	Want  int
}

func (e *HistoryError) Error() string {
	return "previous " + e.Which + ": got " + strconv.Itoa(e.Got) + " values, want " + strconv.Itoa(e.Want)
}

// Is makes errors.Is(err, ErrHistoryLength) hold.
func (e *HistoryError) Is(target error) bool {
	return target == ErrHistoryLength
}

func (r Recurrence) step(h history, in sm.Opt[float64]) (history, sm.Opt[float64]) {
	past := dot(r.Feedforward[1:], h.inputs) + dot(r.Feedback, h.outputs)
	if !in.Valid {
		if r.Feedforward[0] != 0 {
			return h, sm.None[float64]()
		}
		return h, sm.Some(past)
	}

	y := r.Feedforward[0]*in.V + past
	return history{
		inputs:  shift(h.inputs, in.V),
		outputs: shift(h.outputs, y),
	}, sm.Some(y)
}

// shift returns a new history with v prepended and the oldest value dropped.
func shift(h []float64, v float64) []float64 {
	if len(h) == 0 {
		return h
	}
	out := make([]float64, len(h))
	out[0] = v
	copy(out[1:], h[:len(h)-1])
	return out
}

func dot(a, b []float64) float64 {
	if len(a) != len(b) {
		sm.Violation(sm.ErrCodeLengthMismatch, "dot product of %d and %d values", len(a), len(b))
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
