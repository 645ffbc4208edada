package eval

import (
	"unicode/utf8"

	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// Index evaluates `container[key]` for Array, Dictionary, and String
// (spec.md §3.2, §4.5). String indexing yields a one-character String, to
// keep String itself immutable and code-point addressed.
type Index struct {
	At        token.Token
	Container Instruction
	Key       Instruction
}

func (ix *Index) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	c, ctrl, err := ix.Container.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return c, ctrl, err
	}
	k, ctrl, err := ix.Key.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return k, ctrl, err
	}
	switch c.Kind {
	case value.KindArray:
		i, e := arrayIndex(ix.At, c, k)
		if e != nil {
			return value.Nil, value.Casual, e
		}
		return c.Elems()[i], value.Casual, nil
	case value.KindDictionary:
		key, e := dictKey(ix.At, k)
		if e != nil {
			return value.Nil, value.Casual, e
		}
		v, ok := c.DictGet(key)
		if !ok {
			return value.Nil, value.Casual, nil
		}
		return v, value.Casual, nil
	case value.KindString:
		return indexString(ix.At, c, k)
	default:
		return value.Nil, value.Casual, typeError(ix.At, "cannot index a %s", c.Kind)
	}
}

func indexString(at token.Token, s, idx value.Value) (value.Value, value.Control, error) {
	if idx.Kind != value.KindNumber {
		return value.Nil, value.Casual, typeError(at, "string index must be a Number")
	}
	runes := []rune(s.Str())
	i := int(idx.Number().Int64())
	if i < 0 {
		i += len(runes)
	}
	if i < 0 || i >= len(runes) {
		return value.Nil, value.Casual, boundsError(at, "string index %d out of range for length %d", int(idx.Number().Int64()), len(runes))
	}
	return value.Str(string(runes[i])), value.Casual, nil
}

// Inner evaluates `target.member`: Object/class member lookup with
// unified-function-call-syntax fallback to a same-named free function
// (spec.md §4.5, §4.8: "Member access on an Object that fails falls back
// to calling a like-named function with the object as the first
// argument").
type Inner struct {
	At       token.Token
	Target   Instruction
	Member   int
	Fallback *Variable // the same name resolved as a free function, for UFCS
}

func (in *Inner) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	fn, _, _, ctrl, err := in.resolveCallable(s, tr)
	return fn, ctrl, err
}

// callMode distinguishes how a resolved callee should receive the object
// it was reached through, per spec.md §4.8.
type callMode int

const (
	modeMethod callMode = iota // bind as the implicit "this" receiver
	modePrepend                // UFCS: object becomes the first ordinary argument
)

// resolveCallable evaluates Target and looks up Member: first as a bound
// member on an Object (mode = modeMethod, receiver = the object), then,
// failing that, as a same-named free function for unified-function-call
// syntax (mode = modePrepend, receiver prepended to the explicit args).
func (in *Inner) resolveCallable(s *value.Scope, tr *trace.Stack) (fn, receiver value.Value, mode callMode, ctrl value.Control, err error) {
	t, ctrl, err := in.Target.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return t, value.Nil, modeMethod, ctrl, err
	}
	if t.Kind == value.KindObject && t.Object() != nil {
		if v, ok := t.Object().Scope.Get(in.Member); ok {
			return v, t, modeMethod, value.Casual, nil
		}
	}
	if t.Kind == value.KindDictionary {
		if v, ok := t.DictGet(in.At.Text); ok {
			return v, t, modeMethod, value.Casual, nil
		}
	}
	if in.Fallback != nil {
		if free, ok := s.Get(in.Fallback.Name); ok && free.Kind == value.KindFunction {
			return free, t, modePrepend, value.Casual, nil
		}
	}
	return value.Nil, value.Nil, modeMethod, value.Casual, nameError(in.At, "no member or function named %q", in.At.Text)
}

// Length implements `.len` (code points for String, element count for
// Array/Dictionary) and `.size` (raw byte count for String) per spec.md
// §3.2's distinct String length notions.
type Length struct {
	At         token.Token
	Target     Instruction
	ByteLength bool
}

func (l *Length) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	t, ctrl, err := l.Target.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return t, ctrl, err
	}
	switch t.Kind {
	case value.KindString:
		if l.ByteLength {
			return value.Int(int64(len(t.Str()))), value.Casual, nil
		}
		return value.Int(int64(utf8.RuneCountInString(t.Str()))), value.Casual, nil
	case value.KindArray:
		return value.Int(int64(len(t.Elems()))), value.Casual, nil
	case value.KindDictionary:
		return value.Int(int64(len(t.Entries()))), value.Casual, nil
	default:
		return value.Nil, value.Casual, typeError(l.At, "%s has no length", t.Kind)
	}
}
