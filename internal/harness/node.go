package harness

import (
	"fmt"
	"strings"
)

// Node is one element of a machine tree. Exactly one field is set; the set
// field names the primitive or combinator.
type Node struct {
	// Primitives
	Delay       *float64 `yaml:"delay,omitempty"`
	Incr        *float64 `yaml:"incr,omitempty"`
	Gain        *float64 `yaml:"gain,omitempty"`
	Constant    *float64 `yaml:"constant,omitempty"`
	Accumulator *float64 `yaml:"accumulator,omitempty"`
	Wire        bool     `yaml:"wire,omitempty"`
	CountTo     *int     `yaml:"count_to,omitempty"`

	// Composition
	Cascade     []Node `yaml:"cascade,omitempty"`
	Sum         []Node `yaml:"sum,omitempty"`
	Product     []Node `yaml:"product,omitempty"`
	Feedback    *Node  `yaml:"feedback,omitempty"`
	FeedbackAdd *Node  `yaml:"feedback_add,omitempty"`

	// Branching
	Switch *Branch `yaml:"switch,omitempty"`
	Mux    *Branch `yaml:"mux,omitempty"`
	If     *Branch `yaml:"if,omitempty"`

	// Iteration
	Seq         []Node      `yaml:"seq,omitempty"`
	Repeat      *RepeatNode `yaml:"repeat,omitempty"`
	Until       *UntilNode  `yaml:"until,omitempty"`
	RepeatUntil *UntilNode  `yaml:"repeat_until,omitempty"`

	// Linear systems
	System *SystemNode `yaml:"system,omitempty"`
}

// Branch selects between two machines on a predicate of the input.
type Branch struct {
	When Condition `yaml:"when"`
	Then *Node     `yaml:"then"`
	Else *Node     `yaml:"else"`
}

// RepeatNode runs Node Times times; a missing Times repeats forever.
type RepeatNode struct {
	Times *int `yaml:"times,omitempty"`
	Node  Node `yaml:"node"`
}

// UntilNode runs Node until When holds on an input.
type UntilNode struct {
	When Condition `yaml:"when"`
	Node Node      `yaml:"node"`
}

// SystemNode realizes a transfer function as a difference-equation machine.
// Either Model or Numerator and Denominator are given; coefficients are in
// R, highest power first. Histories are newest first.
type SystemNode struct {
	Model       string    `yaml:"model,omitempty"`
	Numerator   []float64 `yaml:"numerator,omitempty"`
	Denominator []float64 `yaml:"denominator,omitempty"`
	PrevInputs  []float64 `yaml:"prev_inputs,omitempty"`
	PrevOutputs []float64 `yaml:"prev_outputs,omitempty"`
}

// Node kinds, named as in scenario YAML.
const (
	KindDelay       = "delay"
	KindIncr        = "incr"
	KindGain        = "gain"
	KindConstant    = "constant"
	KindAccumulator = "accumulator"
	KindWire        = "wire"
	KindCountTo     = "count_to"
	KindCascade     = "cascade"
	KindSum         = "sum"
	KindProduct     = "product"
	KindFeedback    = "feedback"
	KindFeedbackAdd = "feedback_add"
	KindSwitch      = "switch"
	KindMux         = "mux"
	KindIf          = "if"
	KindSeq         = "seq"
	KindRepeat      = "repeat"
	KindUntil       = "until"
	KindRepeatUntil = "repeat_until"
	KindSystem      = "system"
)

// Kind returns the kind of the node, or an error unless exactly one field
// is set.
func (n *Node) Kind() (string, error) {
	set := n.setKinds()
	switch len(set) {
	case 0:
		return "", fmt.Errorf("node has no kind")
	case 1:
		return set[0], nil
	default:
		return "", fmt.Errorf("node has several kinds: %s", strings.Join(set, ", "))
	}
}

func (n *Node) setKinds() []string {
	candidates := []struct {
		kind string
		set  bool
	}{
		{KindDelay, n.Delay != nil},
		{KindIncr, n.Incr != nil},
		{KindGain, n.Gain != nil},
		{KindConstant, n.Constant != nil},
		{KindAccumulator, n.Accumulator != nil},
		{KindWire, n.Wire},
		{KindCountTo, n.CountTo != nil},
		{KindCascade, n.Cascade != nil},
		{KindSum, n.Sum != nil},
		{KindProduct, n.Product != nil},
		{KindFeedback, n.Feedback != nil},
		{KindFeedbackAdd, n.FeedbackAdd != nil},
		{KindSwitch, n.Switch != nil},
		{KindMux, n.Mux != nil},
		{KindIf, n.If != nil},
		{KindSeq, n.Seq != nil},
		{KindRepeat, n.Repeat != nil},
		{KindUntil, n.Until != nil},
		{KindRepeatUntil, n.RepeatUntil != nil},
		{KindSystem, n.System != nil},
	}
	var kinds []string
	for _, c := range candidates {
		if c.set {
			kinds = append(kinds, c.kind)
		}
	}
	return kinds
}

// validate checks the shape of the tree rooted at n. path locates n in
// error messages, e.g. "machine.cascade[1].feedback".
func (n *Node) validate(path string) error {
	kind, err := n.Kind()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	path += "." + kind

	switch kind {
	case KindCountTo:
		if *n.CountTo < 0 {
			return fmt.Errorf("%s: must be non-negative", path)
		}
	case KindCascade:
		return validateList(path, n.Cascade, 1)
	case KindSum:
		return validateList(path, n.Sum, 2)
	case KindProduct:
		return validateList(path, n.Product, 2)
	case KindSeq:
		return validateList(path, n.Seq, 1)
	case KindFeedback:
		return n.Feedback.validate(path)
	case KindFeedbackAdd:
		return n.FeedbackAdd.validate(path)
	case KindSwitch:
		return n.Switch.validate(path)
	case KindMux:
		return n.Mux.validate(path)
	case KindIf:
		return n.If.validate(path)
	case KindRepeat:
		if n.Repeat.Times != nil && *n.Repeat.Times < 0 {
			return fmt.Errorf("%s.times: must be non-negative", path)
		}
		return n.Repeat.Node.validate(path + ".node")
	case KindUntil:
		if err := n.Until.When.validate(path + ".when"); err != nil {
			return err
		}
		return n.Until.Node.validate(path + ".node")
	case KindRepeatUntil:
		if err := n.RepeatUntil.When.validate(path + ".when"); err != nil {
			return err
		}
		return n.RepeatUntil.Node.validate(path + ".node")
	case KindSystem:
		return n.System.validate(path)
	}
	return nil
}

func validateList(path string, nodes []Node, atLeast int) error {
	if len(nodes) < atLeast {
		return fmt.Errorf("%s: needs at least %d machines, got %d", path, atLeast, len(nodes))
	}
	for i := range nodes {
		if err := nodes[i].validate(fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func (b *Branch) validate(path string) error {
	if err := b.When.validate(path + ".when"); err != nil {
		return err
	}
	if b.Then == nil {
		return fmt.Errorf("%s.then: is required", path)
	}
	if b.Else == nil {
		return fmt.Errorf("%s.else: is required", path)
	}
	if err := b.Then.validate(path + ".then"); err != nil {
		return err
	}
	return b.Else.validate(path + ".else")
}

func (s *SystemNode) validate(path string) error {
	hasCoeffs := len(s.Numerator) > 0 || len(s.Denominator) > 0
	switch {
	case s.Model != "" && hasCoeffs:
		return fmt.Errorf("%s: model and coefficients are mutually exclusive", path)
	case s.Model == "" && (len(s.Numerator) == 0 || len(s.Denominator) == 0):
		return fmt.Errorf("%s: needs a model or both numerator and denominator", path)
	}
	return nil
}
