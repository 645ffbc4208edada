package eval

import (
	"rossa/internal/rnumber"
	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// IfElse is the conditional of spec.md §4.4/§4.5. Else may be nil.
type IfElse struct {
	Cond Instruction
	Then Instruction
	Else Instruction
}

func (ie *IfElse) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	c, ctrl, err := ie.Cond.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return c, ctrl, err
	}
	if c.Truthy() {
		return ie.Then.Eval(s, tr)
	}
	if ie.Else != nil {
		return ie.Else.Eval(s, tr)
	}
	return value.Nil, value.Casual, nil
}

// Ternary is `cond ? a : b`, an expression-position IfElse.
type Ternary struct {
	Cond, Then, Else Instruction
}

func (te *Ternary) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	c, ctrl, err := te.Cond.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return c, ctrl, err
	}
	if c.Truthy() {
		return te.Then.Eval(s, tr)
	}
	return te.Else.Eval(s, tr)
}

// While loops while Cond is truthy, clearing a fresh Bounded scope each
// iteration so loop-local declarations don't leak (spec.md §3.3).
type While struct {
	Cond Instruction
	Body Instruction
}

func (w *While) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	var last value.Value
	for {
		c, ctrl, err := w.Cond.Eval(s, tr)
		if err != nil || ctrl != value.Casual {
			return c, ctrl, err
		}
		if !c.Truthy() {
			return last, value.Casual, nil
		}
		child := value.NewScope(s)
		v, ctrl, err := w.Body.Eval(child, tr)
		child.Clear()
		if err != nil {
			return value.Nil, value.Casual, err
		}
		switch ctrl {
		case value.Break:
			return v, value.Casual, nil
		case value.Return, value.Refer:
			return v, ctrl, nil
		case value.Continue:
		}
		last = v
	}
}

// ForIn iterates `for name in iterable { body }` over an Array's elements
// or a Dictionary's keys (spec.md §4.4).
type ForIn struct {
	At       token.Token
	Name     int
	Iterable Instruction
	Body     Instruction
}

func (f *ForIn) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	it, ctrl, err := f.Iterable.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return it, ctrl, err
	}
	var items []value.Value
	switch it.Kind {
	case value.KindArray:
		items = it.Elems()
	case value.KindDictionary:
		for k := range it.Entries() {
			items = append(items, value.Str(k))
		}
	case value.KindString:
		for _, r := range it.Str() {
			items = append(items, value.Str(string(r)))
		}
	default:
		return value.Nil, value.Casual, typeError(f.At, "cannot iterate a %s", it.Kind)
	}
	var last value.Value
	for _, item := range items {
		child := value.NewScope(s)
		child.Declare(f.Name, item.DeepCopy())
		v, ctrl, err := f.Body.Eval(child, tr)
		child.Clear()
		if err != nil {
			return value.Nil, value.Casual, err
		}
		switch ctrl {
		case value.Break:
			return v, value.Casual, nil
		case value.Return, value.Refer:
			return v, ctrl, nil
		case value.Continue:
		}
		last = v
	}
	return last, value.Casual, nil
}

// Until implements the `from .. to [: step]` / `from <> to [: step]` numeric
// range loop of spec.md §4.7's range operators: `..` is half-open
// (exclusive of the upper bound), `<>` is inclusive.
type Until struct {
	At        token.Token
	Name      int
	From, To  Instruction
	Step      Instruction // nil defaults to 1
	Inclusive bool
	Body      Instruction
}

func (u *Until) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	from, ctrl, err := u.From.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return from, ctrl, err
	}
	to, ctrl, err := u.To.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return to, ctrl, err
	}
	step := 1.0
	if u.Step != nil {
		sv, ctrl, err := u.Step.Eval(s, tr)
		if err != nil || ctrl != value.Casual {
			return sv, ctrl, err
		}
		step = sv.Number().Float64()
	}
	if step == 0 {
		return value.Nil, value.Casual, typeError(u.At, "range step cannot be zero")
	}
	cur := from.Number().Float64()
	end := to.Number().Float64()
	var last value.Value
	for (step > 0 && (cur < end || (u.Inclusive && cur <= end))) ||
		(step < 0 && (cur > end || (u.Inclusive && cur >= end))) {
		child := value.NewScope(s)
		child.Declare(u.Name, value.Num(numFromFloat(cur)))
		v, ctrl, err := u.Body.Eval(child, tr)
		child.Clear()
		if err != nil {
			return value.Nil, value.Casual, err
		}
		switch ctrl {
		case value.Break:
			return v, value.Casual, nil
		case value.Return, value.Refer:
			return v, ctrl, nil
		case value.Continue:
		}
		last = v
		cur += step
	}
	return last, value.Casual, nil
}

// Range materializes `from..to[:step]` / `from<>to[:step]` as a concrete
// Array when used in expression position rather than driving a loop
// (spec.md §4.7: "the underlying Until instruction materializes the
// concrete Array on demand").
type Range struct {
	At        token.Token
	From, To  Instruction
	Step      Instruction
	Inclusive bool
}

func (r *Range) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	from, ctrl, err := r.From.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return from, ctrl, err
	}
	if from.Kind != value.KindNumber {
		return value.Nil, value.Casual, typeError(r.At, "range endpoints must be Number, got %s", from.Kind)
	}
	to, ctrl, err := r.To.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return to, ctrl, err
	}
	if to.Kind != value.KindNumber {
		return value.Nil, value.Casual, typeError(r.At, "range endpoints must be Number, got %s", to.Kind)
	}
	step := 1.0
	if r.Step != nil {
		sv, ctrl, err := r.Step.Eval(s, tr)
		if err != nil || ctrl != value.Casual {
			return sv, ctrl, err
		}
		if sv.Kind != value.KindNumber {
			return value.Nil, value.Casual, typeError(r.At, "range step must be Number, got %s", sv.Kind)
		}
		step = sv.Number().Float64()
	}
	if step == 0 {
		return value.Nil, value.Casual, typeError(r.At, "range step cannot be zero")
	}
	cur := from.Number().Float64()
	end := to.Number().Float64()
	var out []value.Value
	for (step > 0 && (cur < end || (r.Inclusive && cur <= end))) ||
		(step < 0 && (cur > end || (r.Inclusive && cur >= end))) {
		out = append(out, value.Num(numFromFloat(cur)))
		cur += step
	}
	return value.NewArray(out), value.Casual, nil
}

// Break, Continue, Return, and Refer carry the enum Control tag of
// spec.md §9's design note rather than tagging the Value itself.
type Break struct{ Val Instruction }

func (b *Break) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	if b.Val == nil {
		return value.Nil, value.Break, nil
	}
	v, _, err := b.Val.Eval(s, tr)
	return v, value.Break, err
}

type Continue struct{}

func (*Continue) Eval(_ *value.Scope, _ *trace.Stack) (value.Value, value.Control, error) {
	return value.Nil, value.Continue, nil
}

type Return struct{ Val Instruction }

func (r *Return) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	if r.Val == nil {
		return value.Nil, value.Return, nil
	}
	v, _, err := r.Val.Eval(s, tr)
	return v, value.Return, err
}

// Refer ends a function body like Return but carries the Refer tag; the
// value it resolves to is not deep-copied at the call boundary, which
// holds for Return as well.
type Refer struct{ Val Instruction }

func (r *Refer) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	v, _, err := r.Val.Eval(s, tr)
	return v, value.Refer, err
}

func numFromFloat(f float64) rnumber.Number {
	return rnumber.Float(f)
}
