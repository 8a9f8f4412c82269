package harness

import (
	"fmt"
	"math"
)

// Condition is a predicate on a float64 input, written in YAML as
// {op: ">=", value: 3} or {op: even}.
type Condition struct {
	Op    string  `yaml:"op"`
	Value float64 `yaml:"value,omitempty"`
}

var comparisons = map[string]func(x, v float64) bool{
	"<":  func(x, v float64) bool { return x < v },
	"<=": func(x, v float64) bool { return x <= v },
	">":  func(x, v float64) bool { return x > v },
	">=": func(x, v float64) bool { return x >= v },
	"==": func(x, v float64) bool { return x == v },
	"!=": func(x, v float64) bool { return x != v },
	"even": func(x, _ float64) bool {
		return x == math.Trunc(x) && math.Mod(x, 2) == 0
	},
	"odd": func(x, _ float64) bool {
		return x == math.Trunc(x) && math.Abs(math.Mod(x, 2)) == 1
	},
}

func (c Condition) validate(path string) error {
	if _, ok := comparisons[c.Op]; !ok {
		return fmt.Errorf("%s: unknown op %q", path, c.Op)
	}
	return nil
}

// Predicate returns the condition as a function of the input.
func (c Condition) Predicate() (func(float64) bool, error) {
	cmp, ok := comparisons[c.Op]
	if !ok {
		return nil, fmt.Errorf("unknown op %q", c.Op)
	}
	v := c.Value
	return func(x float64) bool { return cmp(x, v) }, nil
}

// String renders the condition, e.g. "x >= 3" or "x even".
func (c Condition) String() string {
	switch c.Op {
	case "even", "odd":
		return "x " + c.Op
	}
	return fmt.Sprintf("x %s %g", c.Op, c.Value)
}
