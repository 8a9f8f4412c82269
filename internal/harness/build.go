package harness

import (
	"fmt"

	"github.com/Fay3V/601/internal/compiler"
	"github.com/Fay3V/601/internal/sf"
	"github.com/Fay3V/601/internal/sm"
)

// Machine is the erased machine type every scenario node builds to.
type Machine = sm.Machine[float64, float64]

// BuildError reports a node that cannot be assembled. Err is the
// underlying cause, if any.
type BuildError struct {
	Path    string
	Message string
	Err     error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Build assembles the machine described by node. models resolves system
// nodes that refer to a model by name; it may be nil when none do.
func Build(node *Node, models []compiler.Model) (Machine, error) {
	b := builder{models: models}
	return b.build(node, "machine")
}

type builder struct {
	models []compiler.Model
}

func (b builder) build(n *Node, path string) (Machine, error) {
	kind, err := n.Kind()
	if err != nil {
		return nil, &BuildError{Path: path, Message: err.Error()}
	}
	path += "." + kind

	switch kind {
	case KindDelay:
		return sm.Delay(*n.Delay), nil
	case KindIncr:
		return sm.Incr(*n.Incr), nil
	case KindGain:
		return sm.Gain(*n.Gain), nil
	case KindConstant:
		return sm.Constant[float64](*n.Constant), nil
	case KindAccumulator:
		return sm.Accumulator(*n.Accumulator), nil
	case KindWire:
		return sm.Wire[float64](), nil
	case KindCountTo:
		return sm.CountTo[float64](*n.CountTo), nil

	case KindCascade:
		children, err := b.buildList(n.Cascade, path, 1)
		if err != nil {
			return nil, err
		}
		return sm.Chain(children[0], children[1:]...), nil

	case KindSum:
		children, err := b.buildList(n.Sum, path, 2)
		if err != nil {
			return nil, err
		}
		m := children[0]
		for _, c := range children[1:] {
			m = sm.ParallelAdd(m, c)
		}
		return m, nil

	case KindProduct:
		children, err := b.buildList(n.Product, path, 2)
		if err != nil {
			return nil, err
		}
		m := children[0]
		for _, c := range children[1:] {
			m = sm.Cascade(sm.Parallel(m, c), sm.Multiplier[float64]())
		}
		return m, nil

	case KindFeedback:
		inner, err := b.build(n.Feedback, path)
		if err != nil {
			return nil, err
		}
		return sm.Feedback(inner), nil

	case KindFeedbackAdd:
		inner, err := b.build(n.FeedbackAdd, path)
		if err != nil {
			return nil, err
		}
		return sm.FeedbackOp(inner, sm.Wire[float64](), add), nil

	case KindSwitch:
		return b.buildBranch(n.Switch, path, sm.Switch[float64, float64])
	case KindMux:
		return b.buildBranch(n.Mux, path, sm.Mux[float64, float64])
	case KindIf:
		return b.buildBranch(n.If, path, sm.If[float64, float64])

	case KindSeq:
		children, err := b.buildList(n.Seq, path, 1)
		if err != nil {
			return nil, err
		}
		return sm.Sequence(children[0], children[1:]...), nil

	case KindRepeat:
		inner, err := b.build(&n.Repeat.Node, path+".node")
		if err != nil {
			return nil, err
		}
		times := sm.Forever
		if n.Repeat.Times != nil {
			times = *n.Repeat.Times
		}
		return sm.Repeat(inner, times), nil

	case KindUntil:
		cond, inner, err := b.buildUntil(n.Until, path)
		if err != nil {
			return nil, err
		}
		return sm.Until(cond, inner), nil

	case KindRepeatUntil:
		cond, inner, err := b.buildUntil(n.RepeatUntil, path)
		if err != nil {
			return nil, err
		}
		return sm.RepeatUntil(cond, inner), nil

	case KindSystem:
		return b.buildSystem(n.System, path)
	}

	return nil, &BuildError{Path: path, Message: "unsupported node kind"}
}

func add(x, fed float64) float64 { return x + fed }

func (b builder) buildList(nodes []Node, path string, atLeast int) ([]Machine, error) {
	if len(nodes) < atLeast {
		return nil, &BuildError{
			Path:    path,
			Message: fmt.Sprintf("needs at least %d machines, got %d", atLeast, len(nodes)),
		}
	}
	out := make([]Machine, len(nodes))
	for i := range nodes {
		m, err := b.build(&nodes[i], fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}

type branchFunc func(cond func(float64) bool, whenTrue, whenFalse Machine) Machine

func (b builder) buildBranch(br *Branch, path string, combine branchFunc) (Machine, error) {
	cond, err := br.When.Predicate()
	if err != nil {
		return nil, &BuildError{Path: path + ".when", Message: err.Error()}
	}
	if br.Then == nil || br.Else == nil {
		return nil, &BuildError{Path: path, Message: "then and else are required"}
	}
	whenTrue, err := b.build(br.Then, path+".then")
	if err != nil {
		return nil, err
	}
	whenFalse, err := b.build(br.Else, path+".else")
	if err != nil {
		return nil, err
	}
	return combine(cond, whenTrue, whenFalse), nil
}

func (b builder) buildUntil(u *UntilNode, path string) (func(float64) bool, Machine, error) {
	cond, err := u.When.Predicate()
	if err != nil {
		return nil, nil, &BuildError{Path: path + ".when", Message: err.Error()}
	}
	inner, err := b.build(&u.Node, path+".node")
	if err != nil {
		return nil, nil, err
	}
	return cond, inner, nil
}

func (b builder) buildSystem(s *SystemNode, path string) (Machine, error) {
	system, err := b.systemFunction(s, path)
	if err != nil {
		return nil, err
	}
	m, err := system.StateMachine(s.PrevInputs, s.PrevOutputs)
	if err != nil {
		return nil, &BuildError{Path: path, Message: err.Error(), Err: err}
	}
	return m, nil
}

// systemFunction resolves the transfer function of a system node.
func (b builder) systemFunction(s *SystemNode, path string) (sf.SystemFunction, error) {
	if s.Model != "" {
		model, ok := compiler.Find(b.models, s.Model)
		if !ok {
			return sf.SystemFunction{}, &BuildError{Path: path + ".model", Message: fmt.Sprintf("unknown model %q", s.Model)}
		}
		return model.System, nil
	}
	system, err := sf.FromCoeffs(s.Numerator, s.Denominator)
	if err != nil {
		return sf.SystemFunction{}, &BuildError{Path: path, Message: err.Error(), Err: err}
	}
	return system, nil
}

// SystemFunction returns the transfer function of node when it is a system
// node, and false otherwise.
func SystemFunction(node *Node, models []compiler.Model) (sf.SystemFunction, bool, error) {
	if node.System == nil {
		return sf.SystemFunction{}, false, nil
	}
	s, err := builder{models: models}.systemFunction(node.System, "machine.system")
	if err != nil {
		return sf.SystemFunction{}, false, err
	}
	return s, true, nil
}
