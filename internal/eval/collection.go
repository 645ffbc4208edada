package eval

import (
	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// ArrayLit builds an Array from a fixed list of element expressions
// (spec.md §3.2 literal syntax `[a, b, c]`).
type ArrayLit struct {
	At    token.Token
	Elems []Instruction
}

func (a *ArrayLit) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	elems := make([]value.Value, len(a.Elems))
	for i, e := range a.Elems {
		v, ctrl, err := e.Eval(s, tr)
		if err != nil || ctrl != value.Casual {
			return v, ctrl, err
		}
		v = v.DeepCopy()
		if v.Kind == value.KindObject && v.Object() != nil {
			v.Object().Retain()
		}
		elems[i] = v
	}
	return value.NewArray(elems), value.Casual, nil
}

// DictLit builds a Dictionary from key/value expression pairs (spec.md
// §3.2 literal syntax `{k: v, ...}`); keys are restricted to String at
// generate time by the parser, matching the restriction eval/assign.go's
// dictKey already enforces for indexed assignment.
type DictLit struct {
	At     token.Token
	Keys   []Instruction
	Values []Instruction
}

func (d *DictLit) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	entries := make(map[string]value.Value, len(d.Keys))
	for i, k := range d.Keys {
		kv, ctrl, err := k.Eval(s, tr)
		if err != nil || ctrl != value.Casual {
			return kv, ctrl, err
		}
		key, err := dictKey(d.At, kv)
		if err != nil {
			return value.Nil, value.Casual, err
		}
		v, ctrl, err := d.Values[i].Eval(s, tr)
		if err != nil || ctrl != value.Casual {
			return v, ctrl, err
		}
		v = v.DeepCopy()
		if v.Kind == value.KindObject && v.Object() != nil {
			v.Object().Retain()
		}
		entries[key] = v
	}
	return value.NewDict(entries), value.Casual, nil
}
