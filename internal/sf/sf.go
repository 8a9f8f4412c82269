// Package sf implements transfer functions of linear time-invariant systems
// in the lag operator R.
//
// A SystemFunction is the ratio of two polynomials in R, stored highest
// power first like every poly.Poly: [0.63, -1.6, 1] is 0.63R² - 1.6R + 1.
// The R⁰ coefficient of the denominator is the weight of the current output
// in the difference equation; it must be non-zero for the system to be
// realizable (see StateMachine).
package sf

import (
	"errors"
	"fmt"

	"github.com/Fay3V/601/internal/poly"
)

var (
	// ErrNonCausal indicates a denominator without an R⁰ term.
	ErrNonCausal = errors.New("system is not causal: denominator has no R^0 term")

	// ErrHistoryLength indicates initial histories that do not match the
	// number of taps of the recurrence.
	ErrHistoryLength = errors.New("history length does not match recurrence taps")
)

// SystemFunction is an immutable transfer function N(R)/D(R).
type SystemFunction struct {
	num poly.Poly
	den poly.Poly
}

// New builds the system function num/den.
func New(num, den poly.Poly) SystemFunction {
	return SystemFunction{num: num, den: den}
}

// FromCoeffs builds a system function from coefficient lists, highest power
// of R first.
func FromCoeffs(num, den []float64) (SystemFunction, error) {
	n, err := poly.New(num...)
	if err != nil {
		return SystemFunction{}, fmt.Errorf("numerator: %w", err)
	}
	d, err := poly.New(den...)
	if err != nil {
		return SystemFunction{}, fmt.Errorf("denominator: %w", err)
	}
	return New(n, d), nil
}

var unity = poly.Must(1)

// Gain is the static system y[n] = k·x[n]. k must be non-zero.
func Gain(k float64) SystemFunction {
	return New(poly.Must(k), unity)
}

// Delay is the unit delay R: y[n] = x[n-1].
func Delay() SystemFunction {
	return New(poly.Must(1, 0), unity)
}

// Numerator returns N(R).
func (s SystemFunction) Numerator() poly.Poly {
	return s.num
}

// Denominator returns D(R).
func (s SystemFunction) Denominator() poly.Poly {
	return s.den
}

// Cascade returns the series composition s then other.
func (s SystemFunction) Cascade(other SystemFunction) SystemFunction {
	return New(s.num.Mul(other.num), s.den.Mul(other.den))
}

// Sum returns the parallel composition whose output is the sum of both
// outputs.
func (s SystemFunction) Sum(other SystemFunction) SystemFunction {
	num := s.num.Mul(other.den).Add(other.num.Mul(s.den))
	return New(num, s.den.Mul(other.den))
}

// FeedbackSub closes a negative feedback loop around s through other
// (nil means unity gain): N1·D2 / (D1·D2 + N1·N2).
func (s SystemFunction) FeedbackSub(other *SystemFunction) SystemFunction {
	n2, d2 := s.loop(other)
	return New(s.num.Mul(d2), s.den.Mul(d2).Add(s.num.Mul(n2)))
}

// FeedbackAdd closes a positive feedback loop: N1·D2 / (D1·D2 - N1·N2).
func (s SystemFunction) FeedbackAdd(other *SystemFunction) SystemFunction {
	n2, d2 := s.loop(other)
	return New(s.num.Mul(d2), s.den.Mul(d2).Sub(s.num.Mul(n2)))
}

func (s SystemFunction) loop(other *SystemFunction) (num, den poly.Poly) {
	if other == nil {
		return unity, unity
	}
	return other.num, other.den
}

// String renders "SF(num / den)" in R.
func (s SystemFunction) String() string {
	return fmt.Sprintf("SF(%s / %s)", s.num.Format("R"), s.den.Format("R"))
}
