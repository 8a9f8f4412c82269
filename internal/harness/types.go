package harness

import (
	"github.com/Fay3V/601/internal/sf"
	"github.com/Fay3V/601/internal/trace"
)

// Result is the outcome of a scenario run.
type Result struct {
	Scenario string `json:"scenario"`
	RunID    string `json:"run_id,omitempty"`

	// Pass is true when every expectation held.
	Pass bool `json:"pass"`

	// Ticks is every step taken, absent outputs included.
	Ticks []trace.Tick `json:"ticks"`

	// Poles are set when the root node is a system node.
	Poles sf.Poles `json:"poles,omitempty"`

	// Digest identifies Ticks by content (trace.Digest).
	Digest string `json:"digest"`

	// Failure is the invariant code that stopped the run early, if any.
	Failure string `json:"failure,omitempty"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result with no ticks.
func NewResult(scenario, runID string) *Result {
	return &Result{
		Scenario: scenario,
		RunID:    runID,
		Pass:     true,
		Ticks:    []trace.Tick{},
		Errors:   []string{},
	}
}

// AddError adds an expectation failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTick appends a recorded step.
func (r *Result) AddTick(seq int64, input, output *float64, done bool) {
	r.Ticks = append(r.Ticks, trace.Tick{Seq: seq, Input: input, Output: output, Done: done})
}

// Trace returns the recorded run as a trace.
func (r *Result) Trace() *trace.Trace {
	return &trace.Trace{Scenario: r.Scenario, RunID: r.RunID, Ticks: r.Ticks}
}

// DoneAt returns the 1-based tick after which the machine first reported
// done, or 0 if it never did.
func (r *Result) DoneAt() int {
	for i, t := range r.Ticks {
		if t.Done {
			return i + 1
		}
	}
	return 0
}
