package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/Fay3V/601/internal/trace"
)

// Snapshot returns the canonical bytes compared against golden files. The
// run id is left out so that generated ids do not disturb snapshots.
func Snapshot(name string, result *Result) ([]byte, error) {
	tr := trace.Trace{Scenario: name, Ticks: result.Ticks}
	return tr.Canonical()
}

// RunWithGolden executes a scenario and compares the trace against a golden
// file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result's trace against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}
