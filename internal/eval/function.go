package eval

import (
	"rossa/internal/trace"
	"rossa/internal/value"
)

// NewOverload builds a value.Overload ready to insert into a
// value.Function via AddOverload, capturing the defining scope and a
// snapshot of any free variables a lambda closes over (spec.md §3.4).
func NewOverload(params []value.Param, body Instruction, defining *value.Scope, captures map[int]value.Value, vararg bool) *value.Overload {
	return &value.Overload{
		Params:   params,
		Body:     body,
		Defining: defining,
		Captures: captures,
		IsVararg: vararg,
	}
}

// NewFunctionValue wraps a single overload in a fresh Function table, the
// shape every `def name(...) {...}` and lambda literal produces before
// Scope.Declare merges it into any existing same-named binding.
func NewFunctionValue(nameHash int, ov *value.Overload) value.Value {
	f := value.NewFunction(nameHash)
	f.AddOverload(ov)
	return value.FuncValue(f)
}

// FuncLit is the Instruction evaluated at definition time for every
// `def name(params) { body }` statement and lambda expression. Unlike
// the Overload it builds, FuncLit's Params/Body/vararg-ness are fixed at
// Generate time; only Defining and Captures are snapshotted fresh on
// every Eval, so a lambda created inside a loop gets its own closure
// over that iteration's bindings (spec.md §3.4).
type FuncLit struct {
	NameHash     int
	Params       []value.Param
	Body         Instruction
	IsVararg     bool
	CaptureNames []int // free variables snapshotted from the defining scope
}

func (fl *FuncLit) Eval(s *value.Scope, _ *trace.Stack) (value.Value, value.Control, error) {
	var captures map[int]value.Value
	if len(fl.CaptureNames) > 0 {
		captures = make(map[int]value.Value, len(fl.CaptureNames))
		for _, name := range fl.CaptureNames {
			if v, ok := s.Get(name); ok {
				captures[name] = v
			}
		}
	}
	ov := NewOverload(fl.Params, fl.Body, s, captures, fl.IsVararg)
	return NewFunctionValue(fl.NameHash, ov), value.Casual, nil
}

// DeclareFunc binds the Function value a FuncLit produces into the
// enclosing scope under Name, the missing half of a top-level or
// class-body `def name(...) {...}` statement: Scope.Declare's
// merge-same-name-Function behavior (spec.md §4.8's "if the existing
// binding is a Function and the new value is also a Function, it merges
// overloads") is what turns successive `def fib(0) -> 0;` /
// `def fib(1) -> 1;` / `def fib(n) -> ...;` statements into one
// multi-overload Function.
type DeclareFunc struct {
	Name int
	Lit  Instruction
}

func (d *DeclareFunc) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	v, ctrl, err := d.Lit.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return v, ctrl, err
	}
	s.Declare(d.Name, v)
	return v, value.Casual, nil
}
