package cli

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Fay3V/601/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern)
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	File   string   `json:"file"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run every scenario in a directory",
		Long: `Run every scenario file (.yaml, .yml) under a directory and check its
expectations.

When <scenarios-dir>/golden/<name>.golden exists, the recorded trace must
also match it byte for byte. --update rewrites the golden files instead.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  lti test ./scenarios
  lti test ./scenarios --filter "step-*"
  lti test ./scenarios --update
  lti test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, dir string, cmd *cobra.Command) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", dir))
	}
	if opts.Filter != "" {
		if _, err := filepath.Match(opts.Filter, ""); err != nil {
			return WrapExitError(ExitCommandError, "invalid filter pattern", err)
		}
	}

	files, err := findScenarioFiles(dir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	h := harness.New(harness.WithLogger(opts.logger(cmd.ErrOrStderr())))
	goldenDir := filepath.Join(dir, "golden")

	result := TestResult{
		Scenarios: make([]ScenarioResult, 0, len(files)),
		Total:     len(files),
	}
	for _, file := range files {
		res := runTestScenario(h, file, goldenDir, opts.Update)
		result.Scenarios = append(result.Scenarios, res)
		if res.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	f := opts.formatter(cmd)
	text := func(w io.Writer) { writeTestText(w, result) }
	if result.Failed > 0 {
		return f.Failure(CodeTestFailed, fmt.Sprintf("%d scenario(s) failed", result.Failed), result, text)
	}
	return f.Success(result, text)
}

// findScenarioFiles finds all YAML scenario files under dir, in lexical
// order. A golden directory is skipped.
func findScenarioFiles(dir, filter string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && d.Name() == "golden" {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

func runTestScenario(h *harness.Harness, file, goldenDir string, update bool) ScenarioResult {
	res := ScenarioResult{Name: filepath.Base(file), File: file}

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		res.Errors = []string{fmt.Sprintf("failed to load scenario: %v", err)}
		return res
	}
	res.Name = scenario.Name

	result, err := h.Run(scenario)
	if err != nil {
		res.Errors = []string{fmt.Sprintf("execution failed: %v", err)}
		return res
	}
	res.Errors = result.Errors

	snapshot, err := harness.Snapshot(scenario.Name, result)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("failed to snapshot trace: %v", err))
		return res
	}

	goldenPath := filepath.Join(goldenDir, scenario.Name+".golden")
	if update {
		if err := writeGolden(goldenPath, snapshot); err != nil {
			res.Errors = append(res.Errors, err.Error())
			return res
		}
	} else if golden, err := os.ReadFile(goldenPath); err == nil {
		if !bytes.Equal(golden, snapshot) {
			res.Errors = append(res.Errors, "trace does not match golden file (run with --update to regenerate)")
		}
	} else if !os.IsNotExist(err) {
		res.Errors = append(res.Errors, fmt.Sprintf("failed to read golden file: %v", err))
	}

	res.Pass = len(res.Errors) == 0
	return res
}

func writeGolden(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

func writeTestText(w io.Writer, result TestResult) {
	if result.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return
	}

	for _, s := range result.Scenarios {
		if s.Pass {
			fmt.Fprintf(w, "✓ %s\n", s.Name)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", s.Name)
		for _, e := range s.Errors {
			for _, line := range strings.Split(strings.TrimRight(e, "\n"), "\n") {
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	if result.Failed == 0 {
		fmt.Fprintln(w, "✓ All scenarios passed")
	}
}
