package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Fay3V/601/internal/compiler"
	"github.com/Fay3V/601/internal/sm"
	"github.com/Fay3V/601/internal/testutil"
	"github.com/Fay3V/601/internal/trace"
)

// Harness runs scenarios. The zero value is not usable; call New.
type Harness struct {
	logger   *slog.Logger
	newClock func() Clock
	runIDs   RunIDGenerator
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger for run lifecycle messages.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// WithClock makes every run stamp its ticks from c instead of a fresh
// LogicalClock. c is not reset between runs.
func WithClock(c Clock) Option {
	return func(h *Harness) {
		h.newClock = func() Clock { return c }
	}
}

// WithRunIDs sets the generator used for scenarios without a run_id.
func WithRunIDs(g RunIDGenerator) Option {
	return func(h *Harness) {
		h.runIDs = g
	}
}

// New creates a harness. By default it logs nothing, starts each run at
// seq 1 and names runs testutil.DefaultRunID, which keeps records
// reproducible.
func New(opts ...Option) *Harness {
	h := &Harness{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		newClock: func() Clock { return NewClock() },
		runIDs:   testutil.NewFixedRunID(""),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario with a default harness.
func Run(scenario *Scenario) (*Result, error) {
	return New().Run(scenario)
}

// Run executes a scenario and returns the result.
//
// The returned error covers scenarios that cannot be run at all: missing
// models, unbuildable nodes. Everything that goes wrong while driving the
// machine, invariant violations included, is reported in the result.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	var models []compiler.Model
	if scenario.Models != "" {
		var err error
		models, err = compiler.LoadModels(scenario.Models)
		if err != nil {
			return nil, fmt.Errorf("failed to load models: %w", err)
		}
	}

	machine, err := Build(&scenario.Machine, models)
	if err != nil {
		return nil, fmt.Errorf("failed to build machine: %w", err)
	}

	runID := scenario.RunID
	if runID == "" {
		runID = h.runIDs.Generate()
	}
	result := NewResult(scenario.Name, runID)

	if system, ok, err := SystemFunction(&scenario.Machine, models); err != nil {
		return nil, err
	} else if ok {
		result.Poles = system.Poles()
	}

	h.logger.Info("running scenario",
		"scenario", scenario.Name,
		"run_id", runID,
		"ticks", scenario.Ticks())

	h.drive(machine, scenario, result)

	digest, err := trace.Digest(result.Ticks)
	if err != nil {
		return nil, fmt.Errorf("failed to digest trace: %w", err)
	}
	result.Digest = digest

	for _, msg := range EvaluateExpectations(result, scenario.Expect) {
		result.AddError(msg)
	}

	h.logger.Info("scenario complete",
		"scenario", scenario.Name,
		"run_id", runID,
		"ticks", len(result.Ticks),
		"pass", result.Pass,
		"digest", digest)

	return result, nil
}

// drive steps the machine tick by tick, recording every step. It stops when
// the machine is done, when the scenario's ticks run out, or when a step
// violates an invariant.
func (h *Harness) drive(machine Machine, scenario *Scenario, result *Result) {
	clock := h.newClock()
	instance := sm.NewStateFull(machine)

	for i := range scenario.Ticks() {
		if instance.IsDone() {
			h.logger.Debug("machine done", "scenario", scenario.Name, "tick", i)
			return
		}

		var input *float64
		if len(scenario.Inputs) > 0 {
			input = scenario.Inputs[i]
		}

		out, err := step(instance, input)
		seq := clock.Next()
		if err != nil {
			var ie *sm.InvariantError
			if !errors.As(err, &ie) {
				panic(err)
			}
			result.Failure = string(ie.Code)
			h.logger.Warn("invariant violated",
				"scenario", scenario.Name,
				"seq", seq,
				"code", ie.Code,
				"message", ie.Message)
			return
		}

		var output *float64
		if out.Valid {
			output = &out.V
		}
		result.AddTick(seq, input, output, instance.IsDone())
		h.logger.Debug("tick", "seq", seq, "input", optionalAttr(input), "output", optionalAttr(output))
	}
}

func step(instance *sm.StateFull[float64, float64], input *float64) (out sm.Opt[float64], err error) {
	defer sm.Recover(&err)
	if input == nil {
		return instance.Step(sm.None[float64]()), nil
	}
	return instance.Feed(*input), nil
}

func optionalAttr(v *float64) any {
	if v == nil {
		return "none"
	}
	return *v
}
