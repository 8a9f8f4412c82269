package harness

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/Fay3V/601/internal/sf"
	"github.com/Fay3V/601/internal/trace"
)

// Expectation names, used as AssertionError.Type.
const (
	ExpectOutputs = "outputs"
	ExpectDoneAt  = "done_at"
	ExpectPoles   = "poles"
	ExpectStable  = "stable"
	ExpectError   = "error"
)

// AssertionError is returned when an expectation fails.
// It includes the recorded ticks to help debug the failure.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Ticks    []trace.Tick
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Ticks) > 0 {
		fmt.Fprintf(&buf, "\nTicks:\n")
		for _, t := range e.Ticks {
			fmt.Fprintf(&buf, "  [%d] %s -> %s", t.Seq, formatOptional(t.Input), formatOptional(t.Output))
			if t.Done {
				buf.WriteString(" (done)")
			}
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}

// EvaluateExpectations checks result against expect.
// Returns a slice of error messages for failed expectations.
func EvaluateExpectations(result *Result, expect Expect) []string {
	var errs []string
	check := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	check(assertFailure(result, expect.Error))
	if expect.Outputs != nil {
		tol := expect.Tolerance
		if tol == 0 {
			tol = DefaultTolerance
		}
		check(assertOutputs(result.Ticks, expect.Outputs, tol))
	}
	if expect.DoneAt != nil {
		check(assertDoneAt(result, *expect.DoneAt))
	}
	if expect.Poles != nil {
		check(assertPoles(result.Poles, expect.Poles, expect.Tolerance))
	}
	if expect.Stable != nil {
		check(assertStable(result.Poles, *expect.Stable))
	}

	return errs
}

// assertFailure checks that the run stopped with the expected invariant
// code, or ran to the end when none is expected.
func assertFailure(result *Result, want string) error {
	if result.Failure == want {
		return nil
	}
	expected, actual := want, result.Failure
	if expected == "" {
		expected = "no invariant violation"
	}
	if actual == "" {
		actual = "no invariant violation"
	}
	return &AssertionError{Type: ExpectError, Expected: expected, Actual: actual, Ticks: result.Ticks}
}

// assertOutputs compares recorded outputs tick by tick. A nil expectation
// matches an absent output only.
func assertOutputs(ticks []trace.Tick, want []*float64, tol float64) error {
	got := make([]*float64, len(ticks))
	for i, t := range ticks {
		got[i] = t.Output
	}

	mismatch := len(got) != len(want)
	for i := 0; !mismatch && i < len(want); i++ {
		mismatch = !optionalsClose(want[i], got[i], tol)
	}
	if !mismatch {
		return nil
	}

	return &AssertionError{
		Type:     ExpectOutputs,
		Expected: formatOptionals(want),
		Actual:   formatOptionals(got),
		Ticks:    ticks,
	}
}

func optionalsClose(want, got *float64, tol float64) bool {
	if want == nil || got == nil {
		return want == nil && got == nil
	}
	return math.Abs(*want-*got) <= tol
}

func assertDoneAt(result *Result, want int) error {
	got := result.DoneAt()
	if got == want {
		return nil
	}
	actual := fmt.Sprintf("done after tick %d", got)
	if got == 0 {
		actual = "never done"
	}
	return &AssertionError{
		Type:     ExpectDoneAt,
		Expected: fmt.Sprintf("done after tick %d", want),
		Actual:   actual,
		Ticks:    result.Ticks,
	}
}

// poleTolerance is used for pole comparison when the scenario gives none.
// Scenario poles are typically written to a handful of digits.
const poleTolerance = 1e-6

// assertPoles compares poles as multisets: both lists are sorted by real
// then imaginary part before comparing element-wise.
func assertPoles(got sf.Poles, want []PoleSpec, tol float64) error {
	if tol == 0 {
		tol = poleTolerance
	}

	wantPoles := make(sf.Poles, len(want))
	for i, p := range want {
		wantPoles[i] = sf.Pole{Re: p.Re, Im: p.Im}
	}
	sortPoles(wantPoles)
	gotPoles := slices.Clone(got)
	sortPoles(gotPoles)

	mismatch := len(gotPoles) != len(wantPoles)
	for i := 0; !mismatch && i < len(wantPoles); i++ {
		mismatch = math.Abs(gotPoles[i].Re-wantPoles[i].Re) > tol ||
			math.Abs(gotPoles[i].Im-wantPoles[i].Im) > tol
	}
	if !mismatch {
		return nil
	}

	return &AssertionError{
		Type:     ExpectPoles,
		Expected: formatPoles(wantPoles),
		Actual:   formatPoles(gotPoles),
	}
}

func sortPoles(ps sf.Poles) {
	slices.SortFunc(ps, func(a, b sf.Pole) int {
		if c := cmp.Compare(a.Re, b.Re); c != 0 {
			return c
		}
		return cmp.Compare(a.Im, b.Im)
	})
}

func assertStable(poles sf.Poles, want bool) error {
	if poles == nil {
		return &AssertionError{
			Type:     ExpectStable,
			Expected: fmt.Sprintf("stable=%t", want),
			Actual:   "machine root is not a system node",
		}
	}
	if got := poles.Stable(); got != want {
		return &AssertionError{
			Type:     ExpectStable,
			Expected: fmt.Sprintf("stable=%t", want),
			Actual:   fmt.Sprintf("stable=%t (magnitudes %v)", got, poles.Magnitudes()),
		}
	}
	return nil
}

func formatOptional(v *float64) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%g", *v)
}

func formatOptionals(vs []*float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = formatOptional(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatPoles(ps sf.Poles) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
