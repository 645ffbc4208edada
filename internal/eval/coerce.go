package eval

import (
	"rossa/internal/intern"
	"rossa/internal/rnumber"
	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// CastTo implements the `expr -> Type` coercion table of spec.md §4.6.
// Target is one of the eleven builtin Kinds; casting to a class Kind
// (a positive, interned hash) is not part of the coercion table and is
// rejected the same way an unsupported builtin pair is.
type CastTo struct {
	At       token.Token
	Src      Instruction
	Target   value.Kind
	Interner *intern.Table
}

func (c *CastTo) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	v, ctrl, err := c.Src.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return v, ctrl, err
	}
	out, err := coerce(c.At, v, c.Target, c.Interner)
	if err != nil {
		return value.Nil, value.Casual, err
	}
	return out, value.Casual, nil
}

func coerce(at token.Token, v value.Value, target value.Kind, interner *intern.Table) (value.Value, error) {
	if v.Kind == target {
		return v, nil
	}
	switch target {
	case value.KindString:
		return value.Str(v.ToString(interner)), nil
	case value.KindNumber:
		switch v.Kind {
		case value.KindString:
			n, ok := rnumber.Parse(v.Str())
			if !ok {
				return value.Nil, typeError(at, "cannot parse %q as a Number", v.Str())
			}
			return value.Num(n), nil
		case value.KindBoolean:
			if v.Bool() {
				return value.Int(1), nil
			}
			return value.Int(0), nil
		default:
			return value.Nil, typeError(at, "cannot cast %s to Number", v.Kind)
		}
	case value.KindBoolean:
		return value.Bool(v.Truthy()), nil
	case value.KindArray:
		switch v.Kind {
		case value.KindString:
			runes := []rune(v.Str())
			elems := make([]value.Value, len(runes))
			for i, r := range runes {
				elems[i] = value.Str(string(r))
			}
			return value.NewArray(elems), nil
		case value.KindDictionary:
			elems := make([]value.Value, 0, len(v.Entries()))
			for k, e := range v.Entries() {
				elems = append(elems, value.NewArray([]value.Value{value.Str(k), e}))
			}
			return value.NewArray(elems), nil
		default:
			return value.Nil, typeError(at, "cannot cast %s to Array", v.Kind)
		}
	case value.KindDictionary:
		if v.Kind != value.KindArray {
			return value.Nil, typeError(at, "cannot cast %s to Dictionary", v.Kind)
		}
		entries := map[string]value.Value{}
		for _, e := range v.Elems() {
			if e.Kind != value.KindArray || len(e.Elems()) != 2 || e.Elems()[0].Kind != value.KindString {
				return value.Nil, typeError(at, "Array->Dictionary expects [String, Value] pairs")
			}
			entries[e.Elems()[0].Str()] = e.Elems()[1]
		}
		return value.NewDict(entries), nil
	case value.KindType:
		if v.Kind == value.KindString {
			if k, ok := value.KindByName(v.Str()); ok {
				return value.TypeVal(k), nil
			}
			return value.TypeVal(value.Kind(interner.Hash(v.Str()))), nil
		}
		return value.TypeVal(v.AugmentedKind()), nil
	default:
		return value.Nil, typeError(at, "no coercion from %s to %s", v.Kind, target)
	}
}
