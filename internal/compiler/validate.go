package compiler

import (
	"errors"
	"fmt"
	"math"

	"github.com/Fay3V/601/internal/sf"
)

// Validation codes (E200-E209)
const (
	ErrNonCausal        = "E201" // denominator has no R^0 term
	ErrUnstable         = "E202" // a pole lies outside the unit circle
	ErrMarginallyStable = "E203" // a pole lies on the unit circle
)

// marginTolerance is how close to 1 a pole magnitude must be to count as on
// the unit circle.
const marginTolerance = 1e-9

// ValidationError reports a compiled model that cannot be realized or will
// not settle.
type ValidationError struct {
	Model   string `json:"model"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Model, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Model, e.Message)
}

// Validate checks every model for realizability and stability.
// Returns all problems found (does not fail-fast).
func Validate(models []Model) []ValidationError {
	var errs []ValidationError
	for _, m := range models {
		errs = append(errs, validateModel(m)...)
	}
	return errs
}

func validateModel(m Model) []ValidationError {
	var errs []ValidationError
	line := 0
	if m.Pos.IsValid() {
		line = m.Pos.Line()
	}

	if _, err := m.System.DifferenceEquation(); errors.Is(err, sf.ErrNonCausal) {
		errs = append(errs, ValidationError{
			Model:   m.Name,
			Message: "denominator has no R^0 term",
			Code:    ErrNonCausal,
			Line:    line,
		})
	}

	for _, p := range m.System.Poles() {
		mag := p.Magnitude()
		switch {
		case math.Abs(mag-1) <= marginTolerance:
			errs = append(errs, ValidationError{
				Model:   m.Name,
				Message: fmt.Sprintf("pole %s lies on the unit circle", p),
				Code:    ErrMarginallyStable,
				Line:    line,
			})
		case mag > 1:
			errs = append(errs, ValidationError{
				Model:   m.Name,
				Message: fmt.Sprintf("pole %s has magnitude %.6g", p, mag),
				Code:    ErrUnstable,
				Line:    line,
			})
		}
	}

	return errs
}
