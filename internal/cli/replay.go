package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Fay3V/601/internal/harness"
	"github.com/Fay3V/601/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - latest run of the scenario by default
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <scenario>",
		Short: "Re-run a scenario and verify it against a recorded run",
		Long: `Re-run a scenario and compare the digest of its trace with a run recorded
in the SQLite run log. Without --run, the latest recorded run of the
scenario is used.

Exit codes:
  0 - The replay reproduced the recorded trace
  1 - The traces differ
  2 - Command error (database not found, no recorded run, etc.)

Examples:
  lti replay scenarios/step.yaml --db ./runs.db
  lti replay scenarios/step.yaml --db ./runs.db --run <id>`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", rootOpts.DB, "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "recorded run to verify against")

	return cmd
}

func runReplay(opts *ReplayOptions, path string, cmd *cobra.Command) error {
	db, err := requireDB(opts.Database)
	if err != nil {
		return err
	}
	logger := opts.logger(cmd.ErrOrStderr())
	ctx := cmd.Context()

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	st, err := store.Open(db, store.WithLogger(logger))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	runID := opts.RunID
	if runID == "" {
		runs, err := st.ListRuns(ctx, scenario.Name)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		if len(runs) == 0 {
			return NewExitError(ExitCommandError, fmt.Sprintf("no recorded run of scenario %s", scenario.Name))
		}
		runID = runs[len(runs)-1].ID
	}

	scenario.RunID = runID
	result, err := harness.New(harness.WithLogger(logger)).Run(scenario)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to run scenario", err)
	}

	v, err := st.VerifyRun(ctx, runID, result.Ticks)
	if errors.Is(err, store.ErrRunNotFound) {
		return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", runID))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to verify run", err)
	}

	f := opts.formatter(cmd)
	if !v.Match() {
		msg := fmt.Sprintf("replay of %s diverged at tick %d", runID, v.FirstDivergence)
		return f.Failure(CodeReplayDiverged, msg, v, func(w io.Writer) {
			fmt.Fprintf(w, "✗ %s\n", msg)
			fmt.Fprintf(w, "  stored:   %s\n", v.Stored)
			fmt.Fprintf(w, "  replayed: %s\n", v.Replayed)
		})
	}
	return f.Success(v, func(w io.Writer) {
		fmt.Fprintf(w, "✓ replay of %s matches (%s)\n", runID, shortDigest(v.Stored))
	})
}
