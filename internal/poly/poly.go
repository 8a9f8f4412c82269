// Package poly implements real polynomials with coefficients stored highest
// degree first.
package poly

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrZeroPolynomial is returned (or raised, for arithmetic results) when a
// polynomial would have no non-zero coefficient.
var ErrZeroPolynomial = errors.New("zero polynomial is not supported")

// Poly is a non-zero polynomial. coeffs[0] is the leading coefficient and
// is never zero. The zero value is not usable; build one with New.
type Poly struct {
	coeffs []float64
}

// New builds a polynomial from coefficients, highest degree first. Leading
// zeros are dropped.
func New(coeffs ...float64) (Poly, error) {
	trimmed := trim(coeffs)
	if len(trimmed) == 0 {
		return Poly{}, ErrZeroPolynomial
	}
	return Poly{coeffs: slices.Clone(trimmed)}, nil
}

// Must is like New but panics on error. Use for literals known to be valid.
func Must(coeffs ...float64) Poly {
	p, err := New(coeffs...)
	if err != nil {
		panic(fmt.Sprintf("poly.Must(%v): %v", coeffs, err))
	}
	return p
}

// Constant returns the degree-zero polynomial k.
func Constant(k float64) (Poly, error) {
	return New(k)
}

// fromOwned wraps an arithmetic result and panics when it is zero.
func fromOwned(coeffs []float64) Poly {
	trimmed := trim(coeffs)
	if len(trimmed) == 0 {
		panic(ErrZeroPolynomial)
	}
	return Poly{coeffs: trimmed}
}

func trim(coeffs []float64) []float64 {
	for len(coeffs) > 0 && coeffs[0] == 0 {
		coeffs = coeffs[1:]
	}
	return coeffs
}

// Coeffs returns a copy of the coefficients, highest degree first.
func (p Poly) Coeffs() []float64 {
	return slices.Clone(p.coeffs)
}

// Degree returns the highest power with a non-zero coefficient.
func (p Poly) Degree() int {
	return len(p.coeffs) - 1
}

// Leading returns the coefficient of the highest power.
func (p Poly) Leading() float64 {
	return p.coeffs[0]
}

// Coeff returns the coefficient of x^power, zero outside the degree range.
func (p Poly) Coeff(power int) float64 {
	i := len(p.coeffs) - 1 - power
	if i < 0 || i >= len(p.coeffs) {
		return 0
	}
	return p.coeffs[i]
}

// Add returns p + q. Operands are aligned on their constant terms.
//
// Panics with ErrZeroPolynomial when the sum is identically zero.
func (p Poly) Add(q Poly) Poly {
	return fromOwned(combine(p.coeffs, q.coeffs, 1))
}

// Sub returns p - q. Panics with ErrZeroPolynomial when p == q.
func (p Poly) Sub(q Poly) Poly {
	return fromOwned(combine(p.coeffs, q.coeffs, -1))
}

func combine(a, b []float64, sign float64) []float64 {
	n := max(len(a), len(b))
	out := make([]float64, n)
	for i, v := range a {
		out[n-len(a)+i] += v
	}
	for i, v := range b {
		out[n-len(b)+i] += sign * v
	}
	return out
}

// Mul returns p * q by discrete convolution of the coefficients.
func (p Poly) Mul(q Poly) Poly {
	out := make([]float64, len(p.coeffs)+len(q.coeffs)-1)
	for i, a := range p.coeffs {
		for j, b := range q.coeffs {
			out[i+j] += a * b
		}
	}
	return fromOwned(out)
}

// Scale returns k * p. Panics with ErrZeroPolynomial when k is zero.
func (p Poly) Scale(k float64) Poly {
	out := make([]float64, len(p.coeffs))
	for i, v := range p.coeffs {
		out[i] = k * v
	}
	return fromOwned(out)
}

// Reciprocal reverses the coefficient order and drops the resulting leading
// zeros. It maps a polynomial in the lag operator R to the standard-form
// polynomial in z = 1/R whose roots are the poles.
func (p Poly) Reciprocal() Poly {
	out := slices.Clone(p.coeffs)
	slices.Reverse(out)
	return fromOwned(out)
}

// Eval evaluates p at x with Horner's scheme.
func (p Poly) Eval(x float64) float64 {
	var acc float64
	for _, c := range p.coeffs {
		acc = acc*x + c
	}
	return acc
}

// EvalComplex evaluates p at a complex point.
func (p Poly) EvalComplex(z complex128) complex128 {
	var acc complex128
	for _, c := range p.coeffs {
		acc = acc*z + complex(c, 0)
	}
	return acc
}

// Equal reports whether p and q have the same degree and coefficients
// within tol.
func (p Poly) Equal(q Poly, tol float64) bool {
	if len(p.coeffs) != len(q.coeffs) {
		return false
	}
	for i := range p.coeffs {
		if math.Abs(p.coeffs[i]-q.coeffs[i]) > tol {
			return false
		}
	}
	return true
}
