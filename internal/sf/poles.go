package sf

import (
	"math"
	"math/cmplx"
)

// Pole is a root of the system's characteristic polynomial.
type Pole struct {
	Re float64 `json:"re"`
	Im float64 `json:"im"`
}

// Real reports whether the pole has an imaginary part of exactly zero.
func (p Pole) Real() bool {
	return p.Im == 0
}

// Complex returns the pole as a complex number.
func (p Pole) Complex() complex128 {
	return complex(p.Re, p.Im)
}

// Magnitude returns |p|.
func (p Pole) Magnitude() float64 {
	return cmplx.Abs(p.Complex())
}

// Angle returns the argument of p in radians.
func (p Pole) Angle() float64 {
	return cmplx.Phase(p.Complex())
}

// Period returns the oscillation period of the pole's mode in ticks:
// 2π/|angle|. A positive real pole does not oscillate (+Inf); a negative
// real pole alternates sign every tick (period 2).
func (p Pole) Period() float64 {
	angle := math.Abs(p.Angle())
	if angle == 0 {
		return math.Inf(1)
	}
	return 2 * math.Pi / angle
}

func (p Pole) String() string {
	if p.Real() {
		return formatFloat(p.Re)
	}
	sign := "+"
	if p.Im < 0 {
		sign = "-"
	}
	return formatFloat(p.Re) + sign + formatFloat(math.Abs(p.Im)) + "i"
}

// Poles is the list of poles of a system, in eigenvalue order.
type Poles []Pole

// Magnitudes returns |p| for every pole, in order.
func (ps Poles) Magnitudes() []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = p.Magnitude()
	}
	return out
}

// Dominant returns the pole of largest magnitude. On ties the first such
// pole in eigenvalue order wins; for a complex-conjugate pair either member
// may be reported. Returns false when there are no poles.
func (ps Poles) Dominant() (Pole, bool) {
	if len(ps) == 0 {
		return Pole{}, false
	}
	best := ps[0]
	bestMag := best.Magnitude()
	for _, p := range ps[1:] {
		if m := p.Magnitude(); m > bestMag {
			best, bestMag = p, m
		}
	}
	return best, true
}

// Stable reports whether every pole lies strictly inside the unit circle.
// A system without poles is stable.
func (ps Poles) Stable() bool {
	for _, p := range ps {
		if p.Magnitude() >= 1 {
			return false
		}
	}
	return true
}

// Poles returns the roots of the reciprocal of the denominator, computed as
// eigenvalues of its companion matrix.
func (s SystemFunction) Poles() Poles {
	roots := s.den.Reciprocal().Roots()
	out := make(Poles, len(roots))
	for i, r := range roots {
		out[i] = Pole{Re: real(r), Im: imag(r)}
	}
	return out
}
