package poly

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Companion returns the companion matrix of p: ones on the subdiagonal and
// a first row of -coeffs[1:]/coeffs[0]. Its eigenvalues are the roots of p.
// Returns nil for a constant polynomial.
func (p Poly) Companion() *mat.Dense {
	n := p.Degree()
	if n == 0 {
		return nil
	}
	c := mat.NewDense(n, n, nil)
	for i := 1; i < n; i++ {
		c.Set(i, i-1, 1)
	}
	lead := p.coeffs[0]
	for j := 0; j < n; j++ {
		c.Set(0, j, -p.coeffs[j+1]/lead)
	}
	return c
}

// Roots returns the complex roots of p, with multiplicity, in the order the
// eigenvalue decomposition produces them. Real roots have an imaginary part
// of exactly zero. A constant polynomial has no roots.
func (p Poly) Roots() []complex128 {
	roots, err := p.roots()
	if err != nil {
		panic(err)
	}
	return roots
}

func (p Poly) roots() ([]complex128, error) {
	c := p.Companion()
	if c == nil {
		return nil, nil
	}
	var eig mat.Eigen
	if ok := eig.Factorize(c, mat.EigenNone); !ok {
		return nil, fmt.Errorf("eigendecomposition of degree %d companion matrix did not converge", p.Degree())
	}
	return eig.Values(nil), nil
}
