package eval

import (
	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// Set assigns to an existing binding: statement-level `=` mutates the
// deepest existing binding with that name (spec.md §4.8); `:=` behaves
// like DeclareVars with Const=true and is generated as that instead.
type Set struct {
	At   token.Token
	Name int
	Rhs  Instruction
}

func (st *Set) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	v, ctrl, err := st.Rhs.Eval(s, tr)
	if err != nil {
		return value.Nil, value.Casual, err
	}
	if ctrl != value.Casual {
		return v, ctrl, nil
	}
	assigned := v
	if !v.Shared() {
		assigned = v.DeepCopy()
	}
	if assigned.Kind == value.KindObject && assigned.Object() != nil {
		assigned.Object().Retain()
	}
	if !s.Assign(st.Name, assigned) {
		return value.Nil, value.Casual, nameError(st.At, "assignment to undeclared name %q", st.At.Text)
	}
	return v, value.Casual, nil
}

// SetIndex assigns into an Array or Dictionary element: `a[b] = c`.
type SetIndex struct {
	At        token.Token
	Container Instruction
	Key       Instruction
	Rhs       Instruction
}

func (si *SetIndex) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	c, ctrl, err := si.Container.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return c, ctrl, err
	}
	k, ctrl, err := si.Key.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return k, ctrl, err
	}
	v, ctrl, err := si.Rhs.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return v, ctrl, err
	}
	assigned := v.DeepCopy()
	switch c.Kind {
	case value.KindArray:
		idx, e := arrayIndex(si.At, c, k)
		if e != nil {
			return value.Nil, value.Casual, e
		}
		c.Elems()[idx] = assigned
	case value.KindDictionary:
		key, e := dictKey(si.At, k)
		if e != nil {
			return value.Nil, value.Casual, e
		}
		c.DictSet(key, assigned)
	default:
		return value.Nil, value.Casual, typeError(si.At, "cannot index-assign into a %s", c.Kind)
	}
	return v, value.Casual, nil
}

// SetInner assigns into an Object's/Scope's member binding: `a.b = c`.
type SetInner struct {
	At     token.Token
	Target Instruction
	Member int
	Rhs    Instruction
}

func (si *SetInner) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	t, ctrl, err := si.Target.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return t, ctrl, err
	}
	v, ctrl, err := si.Rhs.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return v, ctrl, err
	}
	if t.Kind != value.KindObject || t.Object() == nil {
		return value.Nil, value.Casual, typeError(si.At, "cannot access members of a %s", t.Kind)
	}
	assigned := v.DeepCopy()
	if assigned.Kind == value.KindObject && assigned.Object() != nil {
		assigned.Object().Retain()
	}
	if !t.Object().Scope.Assign(si.Member, assigned) {
		t.Object().Scope.Declare(si.Member, assigned)
	}
	return v, value.Casual, nil
}

// dictKey enforces String keys for Dictionary subscripting, the common
// restriction across the pack's map-like containers.
func dictKey(at token.Token, k value.Value) (string, error) {
	if k.Kind != value.KindString {
		return "", typeError(at, "dictionary key must be a String, got %s", k.Kind)
	}
	return k.Str(), nil
}

func arrayIndex(at token.Token, arr, idx value.Value) (int, error) {
	if idx.Kind != value.KindNumber {
		return 0, typeError(at, "array index must be a Number, got %s", idx.Kind)
	}
	i := int(idx.Number().Int64())
	n := len(arr.Elems())
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, boundsError(at, "array index %d out of range for length %d", int(idx.Number().Int64()), n)
	}
	return i, nil
}
