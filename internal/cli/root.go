package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// DB is the default run log for commands that take --db.
	DB string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the lti CLI. cfg supplies the
// flag defaults; flags given on the command line win.
func NewRootCommand(cfg Config) *cobra.Command {
	opts := &RootOptions{DB: cfg.DB}

	cmd := &cobra.Command{
		Use:   "lti",
		Short: "lti - discrete-time state machines and linear systems",
		Long: `Build, run and analyse discrete-time state machines and the linear
time-invariant systems they realize.

Scenarios describe a machine as a YAML node tree and check its outputs;
models describe system functions in CUE and are checked for causality and
stability. Runs can be recorded in a SQLite log and replayed later.

Environment:
  LTI_FORMAT   default for --format
  LTI_DB       default for --db
  LTI_VERBOSE  default for --verbose`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", cfg.Verbose, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", cfg.Format, "output format (json|text)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewPolesCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// logger returns a text logger on w: debug level when verbose, warnings
// only otherwise.
func (o *RootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}

// requireDB returns db or a command error naming the flag and variable.
func requireDB(db string) (string, error) {
	if db == "" {
		return "", NewExitError(ExitCommandError, "--db is required (or set LTI_DB)")
	}
	return db, nil
}
