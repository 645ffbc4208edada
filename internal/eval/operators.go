package eval

import (
	"rossa/internal/intern"
	"rossa/internal/rnumber"
	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// Binary implements the arithmetic/comparison/bitwise/logical/string
// table of spec.md §4.6-§4.7. Operator spellings are interned the same
// as any other identifier so Objects can declare a same-named method as
// an operator overload (token.go: "every listed op ... is also a binary
// operator Kind usable as an identifier for operator overloads").
type Binary struct {
	At       token.Token
	Op       string
	OpHash   int
	Left     Instruction
	Right    Instruction
	Interner *intern.Table
}

func (b *Binary) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	l, ctrl, err := b.Left.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return l, ctrl, err
	}

	switch b.Op {
	case "&&":
		if !l.Truthy() {
			return l, value.Casual, nil
		}
		return b.Right.Eval(s, tr)
	case "||":
		if l.Truthy() {
			return l, value.Casual, nil
		}
		return b.Right.Eval(s, tr)
	}

	r, ctrl, err := b.Right.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return r, ctrl, err
	}

	if l.Kind == value.KindObject && l.Object() != nil {
		if fn, ok := l.Object().Scope.Get(b.OpHash); ok && fn.Kind == value.KindFunction {
			return Invoke(fn, []value.Value{l, r}, []bool{false, false}, b.At, tr)
		}
	}

	switch b.Op {
	case "==":
		return value.Bool(value.Equal(l, r)), value.Casual, nil
	case "!=":
		return value.Bool(!value.Equal(l, r)), value.Casual, nil
	case "===":
		return value.Bool(value.PureEqual(l, r)), value.Casual, nil
	case "!==":
		return value.Bool(!value.PureEqual(l, r)), value.Casual, nil
	}

	if b.Op == "++" {
		return value.Str(l.ToString(b.Interner) + r.ToString(b.Interner)), value.Casual, nil
	}

	if l.Kind == value.KindString || r.Kind == value.KindString {
		if b.Op == "+" {
			return value.Str(l.ToString(b.Interner) + r.ToString(b.Interner)), value.Casual, nil
		}
	}

	if l.Kind == value.KindArray && r.Kind == value.KindArray && b.Op == "+" {
		out := append(append([]value.Value{}, l.Elems()...), r.Elems()...)
		return value.NewArray(out).DeepCopy(), value.Casual, nil
	}
	if l.Kind == value.KindArray && r.Kind == value.KindNumber && b.Op == "*" {
		n := int(r.Number().Int64())
		if n < 0 {
			return value.Nil, value.Casual, typeError(b.At, "array repetition count must be non-negative, got %d", n)
		}
		out := make([]value.Value, 0, len(l.Elems())*n)
		for i := 0; i < n; i++ {
			out = append(out, l.Elems()...)
		}
		return value.NewArray(out).DeepCopy(), value.Casual, nil
	}
	if l.Kind == value.KindDictionary && r.Kind == value.KindDictionary && b.Op == "+" {
		merged := map[string]value.Value{}
		for k, v := range l.Entries() {
			merged[k] = v
		}
		for k, v := range r.Entries() {
			merged[k] = v
		}
		return value.NewDict(merged).DeepCopy(), value.Casual, nil
	}

	if l.Kind != value.KindNumber || r.Kind != value.KindNumber {
		return value.Nil, value.Casual, typeError(b.At, "operator %q is not defined between %s and %s", b.Op, l.Kind, r.Kind)
	}
	ln, rn := l.Number(), r.Number()

	switch b.Op {
	case "+":
		return value.Num(rnumber.Add(ln, rn)), value.Casual, nil
	case "-":
		return value.Num(rnumber.Sub(ln, rn)), value.Casual, nil
	case "*":
		return value.Num(rnumber.Mul(ln, rn)), value.Casual, nil
	case "/":
		return value.Num(rnumber.Div(ln, rn)), value.Casual, nil
	case "//":
		q := rnumber.Div(ln, rn)
		return value.Int(int64(q.Float64())), value.Casual, nil
	case "%":
		return value.Num(rnumber.Mod(ln, rn)), value.Casual, nil
	case "**":
		return value.Num(rnumber.Pow(ln, rn)), value.Casual, nil
	case "&":
		return value.Num(rnumber.And(ln, rn)), value.Casual, nil
	case "|":
		return value.Num(rnumber.Or(ln, rn)), value.Casual, nil
	case "^":
		return value.Num(rnumber.Xor(ln, rn)), value.Casual, nil
	case "<<":
		return value.Num(rnumber.Shl(ln, rn)), value.Casual, nil
	case ">>":
		return value.Num(rnumber.Shr(ln, rn)), value.Casual, nil
	case "<":
		return value.Bool(rnumber.Cmp(ln, rn) < 0), value.Casual, nil
	case "<=":
		return value.Bool(rnumber.Cmp(ln, rn) <= 0), value.Casual, nil
	case ">":
		return value.Bool(rnumber.Cmp(ln, rn) > 0), value.Casual, nil
	case ">=":
		return value.Bool(rnumber.Cmp(ln, rn) >= 0), value.Casual, nil
	default:
		return value.Nil, value.Casual, typeError(b.At, "unknown operator %q", b.Op)
	}
}

// Unary implements prefix `-`, `!`, and `~` (spec.md §4.7).
type Unary struct {
	At       token.Token
	Op       string
	OpHash   int
	Operand  Instruction
}

func (u *Unary) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	v, ctrl, err := u.Operand.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return v, ctrl, err
	}
	if v.Kind == value.KindObject && v.Object() != nil {
		if fn, ok := v.Object().Scope.Get(u.OpHash); ok && fn.Kind == value.KindFunction {
			return Invoke(fn, []value.Value{v}, []bool{false}, u.At, tr)
		}
	}
	switch u.Op {
	case "!":
		return value.Bool(!v.Truthy()), value.Casual, nil
	case "-":
		if v.Kind != value.KindNumber {
			return value.Nil, value.Casual, typeError(u.At, "unary - expects a Number, got %s", v.Kind)
		}
		return value.Num(rnumber.Neg(v.Number())), value.Casual, nil
	case "~":
		if v.Kind != value.KindNumber {
			return value.Nil, value.Casual, typeError(u.At, "unary ~ expects a Number, got %s", v.Kind)
		}
		return value.Num(rnumber.Not(v.Number())), value.Casual, nil
	default:
		return value.Nil, value.Casual, typeError(u.At, "unknown unary operator %q", u.Op)
	}
}
