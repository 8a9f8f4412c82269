package poly

import (
	"math"
	"strconv"
	"strings"
)

// Format renders p in the given variable, e.g. "2x^2 - 3x + 1".
// Zero coefficients are omitted and unit coefficients are implicit on non
// constant terms.
func (p Poly) Format(variable string) string {
	var b strings.Builder
	n := len(p.coeffs)
	first := true
	for i, c := range p.coeffs {
		if c == 0 {
			continue
		}
		abs := math.Abs(c)
		switch {
		case first && c < 0:
			b.WriteString("-")
		case !first && c < 0:
			b.WriteString(" - ")
		case !first:
			b.WriteString(" + ")
		}
		first = false

		power := n - i - 1
		if power == 0 || abs != 1 {
			b.WriteString(strconv.FormatFloat(abs, 'g', -1, 64))
		}
		switch power {
		case 0:
		case 1:
			b.WriteString(variable)
		default:
			b.WriteString(variable)
			b.WriteString("^")
			b.WriteString(strconv.Itoa(power))
		}
	}
	return b.String()
}

// String renders p in x.
func (p Poly) String() string {
	return p.Format("x")
}
