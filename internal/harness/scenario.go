package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one machine run and what it should produce.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Models is a directory of CUE model files that system nodes may refer
	// to by name. Relative paths are resolved against the scenario file.
	Models string `yaml:"models,omitempty"`

	// Machine is the root of the node tree to build.
	Machine Node `yaml:"machine"`

	// Inputs feeds one tick per element; null is an absent input.
	Inputs []*float64 `yaml:"inputs,omitempty"`

	// Steps drives that many self-clocked ticks when Inputs is empty.
	Steps int `yaml:"steps,omitempty"`

	// Expect holds the checks applied to the recorded run.
	Expect Expect `yaml:"expect,omitempty"`

	// RunID is an optional fixed run id for deterministic records.
	RunID string `yaml:"run_id,omitempty"`
}

// Expect lists the checks applied to a run. Unset fields are not checked.
type Expect struct {
	// Outputs is compared tick by tick; null expects an absent output.
	Outputs []*float64 `yaml:"outputs,omitempty"`

	// Tolerance is the absolute difference allowed per output. Zero means
	// DefaultTolerance.
	Tolerance float64 `yaml:"tolerance,omitempty"`

	// DoneAt is the tick after which the machine first reports done.
	DoneAt *int `yaml:"done_at,omitempty"`

	// Poles are the expected poles of a root system node, in any order.
	Poles []PoleSpec `yaml:"poles,omitempty"`

	// Stable expects every pole of a root system node inside the unit circle.
	Stable *bool `yaml:"stable,omitempty"`

	// Error is the invariant code the run is expected to stop with.
	Error string `yaml:"error,omitempty"`
}

// PoleSpec is an expected pole.
type PoleSpec struct {
	Re float64 `yaml:"re"`
	Im float64 `yaml:"im,omitempty"`
}

// DefaultTolerance applies when Expect.Tolerance is zero.
const DefaultTolerance = 1e-9

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Models != "" && !filepath.IsAbs(scenario.Models) {
		scenario.Models = filepath.Join(filepath.Dir(path), scenario.Models)
	}

	return scenario, nil
}

// ParseScenario decodes scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // typos like "input:" are errors
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if err := s.Machine.validate("machine"); err != nil {
		return err
	}

	switch {
	case len(s.Inputs) > 0 && s.Steps > 0:
		return fmt.Errorf("inputs and steps are mutually exclusive")
	case len(s.Inputs) == 0 && s.Steps <= 0:
		return fmt.Errorf("either inputs or a positive steps count is required")
	}

	if s.Expect.Tolerance < 0 {
		return fmt.Errorf("expect.tolerance must be non-negative")
	}
	if s.Expect.DoneAt != nil && *s.Expect.DoneAt < 1 {
		return fmt.Errorf("expect.done_at must be at least 1")
	}

	return nil
}

// Ticks returns the number of ticks the scenario drives at most.
func (s *Scenario) Ticks() int {
	if len(s.Inputs) > 0 {
		return len(s.Inputs)
	}
	return s.Steps
}
