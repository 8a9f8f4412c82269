package trace

// Tick is one driver step.
type Tick struct {
	// Seq is the logical clock value of the step, starting at 1.
	Seq int64 `json:"seq"`

	// Input is nil for a self-clocked step.
	Input *float64 `json:"input"`

	// Output is nil when the machine produced no value.
	Output *float64 `json:"output"`

	// Done reports the machine's completion after the step.
	Done bool `json:"done"`
}

// Trace is the full record of one scenario run.
type Trace struct {
	Scenario string `json:"scenario"`
	RunID    string `json:"run_id,omitempty"`
	Ticks    []Tick `json:"ticks"`
}

// Float returns a pointer to v, for building Tick values.
func Float(v float64) *float64 {
	return &v
}

// Outputs returns the present outputs in tick order.
func (tr *Trace) Outputs() []float64 {
	out := make([]float64, 0, len(tr.Ticks))
	for _, t := range tr.Ticks {
		if t.Output != nil {
			out = append(out, *t.Output)
		}
	}
	return out
}

func optional(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func (t Tick) canonicalMap() map[string]any {
	return map[string]any{
		"seq":    t.Seq,
		"input":  optional(t.Input),
		"output": optional(t.Output),
		"done":   t.Done,
	}
}

func (tr *Trace) canonicalMap() map[string]any {
	ticks := make([]any, len(tr.Ticks))
	for i, t := range tr.Ticks {
		ticks[i] = t.canonicalMap()
	}
	m := map[string]any{
		"scenario": tr.Scenario,
		"ticks":    ticks,
	}
	if tr.RunID != "" {
		m["run_id"] = tr.RunID
	}
	return m
}
