package compiler

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"

	"github.com/Fay3V/601/internal/poly"
	"github.com/Fay3V/601/internal/sf"
)

// Kind names the form of a model entry.
type Kind string

const (
	KindRational Kind = "rational"
	KindGain     Kind = "gain"
	KindDelay    Kind = "delay"
	KindCascade  Kind = "cascade"
	KindSum      Kind = "sum"
	KindFeedback Kind = "feedback"
)

// Model is one compiled system entry.
type Model struct {
	Name   string
	Kind   Kind
	System sf.SystemFunction
	Pos    token.Pos
}

// Find returns the model called name.
func Find(models []Model, name string) (Model, bool) {
	for _, m := range models {
		if m.Name == name {
			return m, true
		}
	}
	return Model{}, false
}

// entry is a parsed but not yet compiled model.
type entry struct {
	name string
	kind Kind
	pos  token.Pos

	num, den []float64
	gain     float64

	refs    []string // cascade, sum, or [feedback, through?]
	through bool
	sign    string
}

// CompileModels validates v against the model schema and compiles every
// entry under system, dependencies first. Entries without dependencies
// between them keep their declaration order.
func CompileModels(v cue.Value) ([]Model, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	schema := v.Context().CompileString(modelSchema)
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	v = schema.Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	systemVal := v.LookupPath(cue.ParsePath("system"))
	if !systemVal.Exists() {
		return nil, &CompileError{
			Field:   "system",
			Message: "no system entries defined",
			Pos:     v.Pos(),
		}
	}

	iter, err := systemVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var entries []entry
	for iter.Next() {
		e, err := parseEntry(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return nil, &CompileError{
			Field:   "system",
			Message: "no system entries defined",
			Pos:     systemVal.Pos(),
		}
	}

	order, err := resolveOrder(entries)
	if err != nil {
		return nil, err
	}

	compiled := make(map[string]sf.SystemFunction, len(entries))
	models := make([]Model, 0, len(entries))
	for _, e := range order {
		s, err := e.compile(compiled)
		if err != nil {
			return nil, err
		}
		compiled[e.name] = s
		models = append(models, Model{Name: e.name, Kind: e.kind, System: s, Pos: e.pos})
	}
	return models, nil
}

func parseEntry(name string, v cue.Value) (entry, error) {
	e := entry{name: name, pos: v.Pos()}
	field := "system." + name

	switch {
	case v.LookupPath(cue.ParsePath("numerator")).Exists():
		e.kind = KindRational
		var err error
		if e.num, err = floats(v.LookupPath(cue.ParsePath("numerator"))); err != nil {
			return e, err
		}
		if e.den, err = floats(v.LookupPath(cue.ParsePath("denominator"))); err != nil {
			return e, err
		}

	case v.LookupPath(cue.ParsePath("gain")).Exists():
		e.kind = KindGain
		g, err := v.LookupPath(cue.ParsePath("gain")).Float64()
		if err != nil {
			return e, formatCUEError(err)
		}
		if g == 0 {
			return e, &CompileError{Field: field + ".gain", Message: "gain must be non-zero", Pos: e.pos}
		}
		e.gain = g

	case v.LookupPath(cue.ParsePath("delay")).Exists():
		e.kind = KindDelay

	case v.LookupPath(cue.ParsePath("cascade")).Exists():
		e.kind = KindCascade
		refs, err := labels(v.LookupPath(cue.ParsePath("cascade")))
		if err != nil {
			return e, err
		}
		e.refs = refs

	case v.LookupPath(cue.ParsePath("sum")).Exists():
		e.kind = KindSum
		refs, err := labels(v.LookupPath(cue.ParsePath("sum")))
		if err != nil {
			return e, err
		}
		e.refs = refs

	case v.LookupPath(cue.ParsePath("feedback")).Exists():
		e.kind = KindFeedback
		forward, err := v.LookupPath(cue.ParsePath("feedback")).String()
		if err != nil {
			return e, formatCUEError(err)
		}
		e.refs = []string{forward}
		e.sign = "sub"
		if sv := v.LookupPath(cue.ParsePath("sign")); sv.Exists() && sv.IsConcrete() {
			if e.sign, err = sv.String(); err != nil {
				return e, formatCUEError(err)
			}
		}
		if tv := v.LookupPath(cue.ParsePath("through")); tv.Exists() && tv.IsConcrete() {
			through, err := tv.String()
			if err != nil {
				return e, formatCUEError(err)
			}
			e.refs = append(e.refs, through)
			e.through = true
		}

	default:
		return e, &CompileError{Field: field, Message: "unrecognized model entry", Pos: e.pos}
	}

	return e, nil
}

func floats(v cue.Value) ([]float64, error) {
	it, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []float64
	for it.Next() {
		f, err := it.Value().Float64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, f)
	}
	return out, nil
}

func labels(v cue.Value) ([]string, error) {
	it, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for it.Next() {
		s, err := it.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

// compile builds the system function of e. Every reference must already be
// in compiled.
func (e entry) compile(compiled map[string]sf.SystemFunction) (s sf.SystemFunction, err error) {
	field := "system." + e.name

	// Compositions whose denominator cancels to zero surface as a poly panic.
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok && errors.Is(rerr, poly.ErrZeroPolynomial) {
				err = &CompileError{Field: field, Message: "composition has a zero polynomial", Pos: e.pos}
				return
			}
			panic(r)
		}
	}()

	refs := make([]sf.SystemFunction, len(e.refs))
	for i, name := range e.refs {
		refs[i] = compiled[name]
	}

	switch e.kind {
	case KindRational:
		s, err = sf.FromCoeffs(e.num, e.den)
		if err != nil {
			return s, &CompileError{Field: field, Message: err.Error(), Pos: e.pos}
		}
		return s, nil
	case KindGain:
		return sf.Gain(e.gain), nil
	case KindDelay:
		return sf.Delay(), nil
	case KindCascade:
		s = refs[0]
		for _, r := range refs[1:] {
			s = s.Cascade(r)
		}
		return s, nil
	case KindSum:
		s = refs[0]
		for _, r := range refs[1:] {
			s = s.Sum(r)
		}
		return s, nil
	case KindFeedback:
		var through *sf.SystemFunction
		if e.through {
			through = &refs[1]
		}
		if e.sign == "add" {
			return refs[0].FeedbackAdd(through), nil
		}
		return refs[0].FeedbackSub(through), nil
	}
	return s, &CompileError{Field: field, Message: fmt.Sprintf("unknown kind %q", e.kind), Pos: e.pos}
}
