package eval

import (
	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// DeleteIndex is `delete container[key]` (spec.md §4.3's `delete`
// operator): removes a Dictionary entry or splices an Array element.
type DeleteIndex struct {
	At             token.Token
	Container, Key Instruction
}

func (d *DeleteIndex) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	c, ctrl, err := d.Container.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return c, ctrl, err
	}
	k, ctrl, err := d.Key.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return k, ctrl, err
	}
	switch c.Kind {
	case value.KindDictionary:
		key, err := dictKey(d.At, k)
		if err != nil {
			return value.Nil, value.Casual, err
		}
		c.DictSet(key, value.Nil)
	case value.KindArray:
		idx, err := arrayIndex(d.At, c, k)
		if err != nil {
			return value.Nil, value.Casual, err
		}
		elems := c.Elems()
		c.SetElems(append(elems[:idx], elems[idx+1:]...))
	default:
		return value.Nil, value.Casual, typeError(d.At, "delete expects an Array or Dictionary, got %s", c.Kind)
	}
	return value.Nil, value.Casual, nil
}

// DeleteInner is `delete target.member`: removes a member binding from
// an Object's scope.
type DeleteInner struct {
	At     token.Token
	Target Instruction
	Member int
}

func (d *DeleteInner) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	t, ctrl, err := d.Target.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return t, ctrl, err
	}
	if t.Kind != value.KindObject || t.Object() == nil {
		return value.Nil, value.Casual, typeError(d.At, "delete . expects an Object, got %s", t.Kind)
	}
	t.Object().Scope.Delete(d.Member)
	return value.Nil, value.Casual, nil
}
