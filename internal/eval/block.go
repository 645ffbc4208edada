package eval

import (
	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// Sequence runs a list of instructions in the current scope, in order,
// short-circuiting on the first non-Casual control signal or error
// (spec.md §4.5: a function/statement body is a Sequence).
type Sequence struct {
	Stmts []Instruction
}

func (sq *Sequence) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	var last value.Value
	for _, st := range sq.Stmts {
		v, ctrl, err := st.Eval(s, tr)
		if err != nil {
			return value.Nil, value.Casual, err
		}
		if ctrl != value.Casual {
			return v, ctrl, nil
		}
		last = v
	}
	return last, value.Casual, nil
}

// ScopeBlock runs Body in a fresh Bounded child scope, the `{ ... }`
// block construct (spec.md §3.3, §4.4). The child scope is cleared on
// exit, releasing any Objects bound inside the block.
type ScopeBlock struct {
	Body Instruction
}

func (b *ScopeBlock) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	child := value.NewScope(s)
	v, ctrl, err := b.Body.Eval(child, tr)
	child.Clear()
	return v, ctrl, err
}

// DeclareVars introduces several names at once (`var a, b, c;`), each
// initialized to Nil or to a parallel init expression.
type DeclareVars struct {
	At    token.Token
	Names []int
	Inits []Instruction // parallel to Names; nil entries mean "no initializer"
	Const bool          // true for `:=`-style const declaration: marks the bound value's
	                    // backing store shared so every later `var`/`=` read of it aliases
	                    // instead of deep-copying (spec.md §8.1 invariant 4)
}

func (d *DeclareVars) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	var last value.Value
	for i, name := range d.Names {
		v := value.Nil
		if d.Inits[i] != nil {
			var ctrl value.Control
			var err error
			v, ctrl, err = d.Inits[i].Eval(s, tr)
			if err != nil {
				return value.Nil, value.Casual, err
			}
			if ctrl != value.Casual {
				return v, ctrl, nil
			}
		}
		if d.Const {
			v = v.MarkShared()
		} else if !v.Shared() {
			v = v.DeepCopy()
		}
		if v.Kind == value.KindObject && v.Object() != nil {
			v.Object().Retain()
		}
		s.Declare(name, v)
		last = v
	}
	return last, value.Casual, nil
}
