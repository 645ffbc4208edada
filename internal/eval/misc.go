package eval

import (
	"rossa/internal/intern"
	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// Alloc builds a fresh Array of N Nil entries (spec.md §4.5 "Alloc(n)"),
// generated from the reserved `alloc(n)` call form.
type Alloc struct {
	At token.Token
	N  Instruction
}

func (a *Alloc) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	n, ctrl, err := a.N.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return n, ctrl, err
	}
	if n.Kind != value.KindNumber {
		return value.Nil, value.Casual, typeError(a.At, "alloc expects a Number, got %s", n.Kind)
	}
	count := int(n.Number().Int64())
	if count < 0 {
		return value.Nil, value.Casual, boundsError(a.At, "alloc count must be non-negative, got %d", count)
	}
	elems := make([]value.Value, count)
	for i := range elems {
		elems[i] = value.Nil
	}
	return value.NewArray(elems), value.Casual, nil
}

// CharN converts a single-character String to its Number code point
// (spec.md §3.1's char-literal inverse, reserved `charN(s)` call form).
type CharN struct {
	At  token.Token
	Src Instruction
}

func (c *CharN) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	v, ctrl, err := c.Src.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return v, ctrl, err
	}
	if v.Kind != value.KindString {
		return value.Nil, value.Casual, typeError(c.At, "charN expects a String, got %s", v.Kind)
	}
	runes := []rune(v.Str())
	if len(runes) != 1 {
		return value.Nil, value.Casual, typeError(c.At, "charN expects a single-character String, got length %d", len(runes))
	}
	return value.Int(int64(runes[0])), value.Casual, nil
}

// CharS converts a Number code point to a single-character String.
type CharS struct {
	At  token.Token
	Src Instruction
}

func (c *CharS) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	v, ctrl, err := c.Src.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return v, ctrl, err
	}
	if v.Kind != value.KindNumber {
		return value.Nil, value.Casual, typeError(c.At, "charS expects a Number, got %s", v.Kind)
	}
	return value.Str(string(rune(v.Number().Int64()))), value.Casual, nil
}

// Parse lexes, parses, folds, and evaluates a String as source, returning
// its result value (spec.md §4.5 "Parse(s)"). It defers to
// eval.CompileSource, installed by internal/parser's init to avoid an
// import cycle.
type Parse struct {
	At  token.Token
	Src Instruction
	Env *Env
}

func (p *Parse) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	v, ctrl, err := p.Src.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return v, ctrl, err
	}
	if v.Kind != value.KindString {
		return value.Nil, value.Casual, typeError(p.At, "parse expects a String, got %s", v.Kind)
	}
	if CompileSource == nil {
		return value.Nil, value.Casual, typeError(p.At, "parse is unavailable: no source compiler installed")
	}
	instr, err := CompileSource(p.Env, v.Str(), "<parse>")
	if err != nil {
		return value.Nil, value.Casual, err
	}
	return instr.Eval(s, tr)
}

// CallOpI is the reflection hook of spec.md §4.5/§9: call an
// interned-identifier-named function dynamically by its numeric handle
// rather than a lexical Variable lookup, the reserved `callop(id, args)`
// call form.
type CallOpI struct {
	At       token.Token
	IDExpr   Instruction
	Args     []Instruction
	Interner *intern.Table
}

func (c *CallOpI) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	idv, ctrl, err := c.IDExpr.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return idv, ctrl, err
	}
	var id int
	switch idv.Kind {
	case value.KindNumber:
		id = int(idv.Number().Int64())
	case value.KindString:
		id = c.Interner.Hash(idv.Str())
	default:
		return value.Nil, value.Casual, typeError(c.At, "callop expects a Number handle or a String name, got %s", idv.Kind)
	}
	fn, ok := s.Get(id)
	if !ok || fn.Kind != value.KindFunction {
		return value.Nil, value.Casual, nameError(c.At, "no callable function bound to %q", c.Interner.Dehash(id))
	}
	args := make([]value.Value, len(c.Args))
	for i, a := range c.Args {
		v, ctrl, err := a.Eval(s, tr)
		if err != nil || ctrl != value.Casual {
			return v, ctrl, err
		}
		args[i] = v
	}
	return Invoke(fn, args, nil, c.At, tr)
}
