package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Fay3V/601/internal/compiler"
)

// ValidateOutput is the result of the validate command.
type ValidateOutput struct {
	Models []string                   `json:"models"`
	Errors []compiler.ValidationError `json:"errors"`

	// CompileError is set when the models could not be compiled at all.
	CompileError string `json:"compile_error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <models-dir>",
		Short: "Check CUE system models for causality and stability",
		Long: `Compile the CUE system models in a directory and check that each one is
causal and stable.

Reported problems:
  E201 - denominator has no R^0 term (the system cannot be realized)
  E202 - a pole lies outside the unit circle
  E203 - a pole lies on the unit circle

Exit codes:
  0 - All models are valid
  1 - A model failed to compile or failed a check
  2 - Command error (directory not found)

Examples:
  lti validate ./models
  lti validate ./models --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	if _, err := os.Stat(dir); err != nil {
		return WrapExitError(ExitCommandError, "models directory not found", err)
	}

	f := opts.formatter(cmd)

	models, err := compiler.LoadModels(dir)
	if err != nil {
		out := ValidateOutput{Models: []string{}, Errors: []compiler.ValidationError{}, CompileError: err.Error()}
		return f.Failure(CodeInvalidModels, "models failed to compile", out, func(w io.Writer) {
			fmt.Fprintf(w, "✗ %s\n", describeCompileError(err))
		})
	}

	out := ValidateOutput{
		Models: make([]string, len(models)),
		Errors: compiler.Validate(models),
	}
	for i, m := range models {
		out.Models[i] = m.Name
	}
	if out.Errors == nil {
		out.Errors = []compiler.ValidationError{}
	}

	if len(out.Errors) > 0 {
		msg := fmt.Sprintf("%d problem(s) in %d model(s)", len(out.Errors), len(models))
		return f.Failure(CodeInvalidModels, msg, out, func(w io.Writer) {
			for _, e := range out.Errors {
				fmt.Fprintf(w, "✗ %s\n", e.Error())
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, msg)
		})
	}

	return f.Success(out, func(w io.Writer) {
		fmt.Fprintf(w, "✓ %d model(s) valid\n", len(models))
	})
}

func describeCompileError(err error) string {
	var ce *compiler.CompileError
	if errors.As(err, &ce) {
		return ce.Error()
	}
	return fmt.Sprintf("compile error: %v", err)
}
