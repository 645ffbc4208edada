package eval

import (
	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// Literal evaluates to a fixed Value, used both for source literals
// (numbers, strings, booleans, nil) and for the result of constant
// folding (spec.md §4.4: "a folded Node carries its value directly").
type Literal struct {
	At  token.Token
	Val value.Value
}

func (l *Literal) Eval(_ *value.Scope, _ *trace.Stack) (value.Value, value.Control, error) {
	return l.Val, value.Casual, nil
}

// Variable looks up an interned name in the running scope.
type Variable struct {
	At   token.Token
	Name int
}

func (v *Variable) Eval(s *value.Scope, _ *trace.Stack) (value.Value, value.Control, error) {
	val, ok := s.Get(v.Name)
	if !ok {
		return value.Nil, value.Casual, nameError(v.At, "undefined name %q", v.At.Text)
	}
	return val, value.Casual, nil
}

// This evaluates the implicit receiver binding inside a method body.
type This struct {
	At       token.Token
	ThisHash int
}

func (t *This) Eval(s *value.Scope, _ *trace.Stack) (value.Value, value.Control, error) {
	val, ok := s.Get(t.ThisHash)
	if !ok {
		return value.Nil, value.Casual, nameError(t.At, "'this' used outside of a method body")
	}
	return val, value.Casual, nil
}
