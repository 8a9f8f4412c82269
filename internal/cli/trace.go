package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Fay3V/601/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunID    string // show this run's ticks
	Scenario string // list runs of this scenario only
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show recorded runs",
		Long: `Show runs recorded in the SQLite run log.

Without --run, lists every recorded run in recording order. With --run,
prints the ticks of that run.

Examples:
  lti trace --db ./runs.db
  lti trace --db ./runs.db --scenario step
  lti trace --db ./runs.db --run 01920000-0000-7000-8000-000000000000
  lti trace --db ./runs.db --run <id> --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", rootOpts.DB, "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show the ticks of this run")
	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "list runs of this scenario only")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	db, err := requireDB(opts.Database)
	if err != nil {
		return err
	}

	st, err := store.Open(db, store.WithLogger(opts.logger(cmd.ErrOrStderr())))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	f := opts.formatter(cmd)

	if opts.RunID == "" {
		runs, err := st.ListRuns(ctx, opts.Scenario)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		return f.Success(runs, func(w io.Writer) { writeRunList(w, runs) })
	}

	tr, err := st.ReadTrace(ctx, opts.RunID)
	if errors.Is(err, store.ErrRunNotFound) {
		return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", opts.RunID))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	return f.Success(tr, func(w io.Writer) {
		fmt.Fprintf(w, "Scenario: %s\n", tr.Scenario)
		fmt.Fprintf(w, "Run:      %s\n", tr.RunID)
		writeTicks(w, tr.Ticks)
	})
}

func writeRunList(w io.Writer, runs []store.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%4d  %-36s  %-20s  %3d ticks  %s\n", r.CreatedSeq, r.ID, r.Scenario, r.Ticks, shortDigest(r.Digest))
	}
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
