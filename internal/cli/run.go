package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Fay3V/601/internal/harness"
	"github.com/Fay3V/601/internal/store"
	"github.com/Fay3V/601/internal/trace"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs harness.RunIDGenerator
}

// RunOutput is the result of the run command.
type RunOutput struct {
	*harness.Result
	Recorded bool `json:"recorded"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario>",
		Short: "Run a scenario and check its expectations",
		Long: `Run a single scenario file, print every tick and check the scenario's
expectations.

With --db the run is recorded in the SQLite run log, from which it can be
listed with "lti trace" and verified with "lti replay".

Exit codes:
  0 - All expectations held
  1 - An expectation failed
  2 - Command error (invalid scenario, unbuildable machine, etc.)

Examples:
  lti run scenarios/step.yaml
  lti run scenarios/step.yaml --db ./runs.db
  lti run scenarios/step.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarioFile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", rootOpts.DB, "record the run in this SQLite database")

	return cmd
}

func runScenarioFile(opts *RunOptions, path string, cmd *cobra.Command) error {
	logger := opts.logger(cmd.ErrOrStderr())

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	runIDs := opts.RunIDs
	if runIDs == nil {
		runIDs = harness.UUIDv7Generator{}
	}
	h := harness.New(harness.WithLogger(logger), harness.WithRunIDs(runIDs))

	result, err := h.Run(scenario)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to run scenario", err)
	}

	out := RunOutput{Result: result}
	if opts.Database != "" {
		st, err := store.Open(opts.Database, store.WithLogger(logger))
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()

		if _, err := st.WriteRun(cmd.Context(), store.Run{
			ID:       result.RunID,
			Scenario: result.Scenario,
			Digest:   result.Digest,
		}, result.Ticks); err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		out.Recorded = true
	}

	f := opts.formatter(cmd)
	text := func(w io.Writer) { writeRunText(w, out) }
	if !result.Pass {
		return f.Failure(CodeScenarioFailed, fmt.Sprintf("scenario %s failed", result.Scenario), out, text)
	}
	return f.Success(out, text)
}

func writeRunText(w io.Writer, out RunOutput) {
	r := out.Result
	fmt.Fprintf(w, "Scenario: %s\n", r.Scenario)
	fmt.Fprintf(w, "Run:      %s\n", r.RunID)
	writeTicks(w, r.Ticks)
	if len(r.Poles) > 0 {
		fmt.Fprintf(w, "Poles:    %s\n", formatPoleList(r.Poles))
	}
	fmt.Fprintf(w, "Digest:   %s\n", r.Digest)
	if out.Recorded {
		fmt.Fprintln(w, "Recorded: yes")
	}
	fmt.Fprintln(w)

	if r.Pass {
		fmt.Fprintf(w, "✓ %s\n", r.Scenario)
		return
	}
	fmt.Fprintf(w, "✗ %s\n", r.Scenario)
	if r.Failure != "" {
		fmt.Fprintf(w, "  stopped by invariant violation %s\n", r.Failure)
	}
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}

// writeTicks prints one line per tick: seq, input, output and a done marker.
func writeTicks(w io.Writer, ticks []trace.Tick) {
	if len(ticks) == 0 {
		fmt.Fprintln(w, "  (no ticks)")
		return
	}
	fmt.Fprintf(w, "  %5s  %12s  %12s\n", "seq", "input", "output")
	for _, t := range ticks {
		done := ""
		if t.Done {
			done = "  done"
		}
		fmt.Fprintf(w, "  %5d  %12s  %12s%s\n", t.Seq, formatValue(t.Input), formatValue(t.Output), done)
	}
}

func formatValue(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *v)
}
