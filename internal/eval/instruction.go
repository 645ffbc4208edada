// Package eval is the tree-walking evaluator of spec.md §4.5: a tree of
// Instruction values, each a small Go type implementing value.Evaluable,
// built by internal/ast's Generate methods instead of being interpreted
// from an opcode stream the way sentra's bytecode VM (internal/vm) would.
// Keeping one Go type per instruction kind mirrors sentra's compiler.go
// Stmt/Expr node shapes more than its vm.go opcode switch, since there is
// no bytecode here to switch over — Eval *is* the dispatch.
package eval

import (
	"rossa/internal/errors"
	"rossa/internal/extern"
	"rossa/internal/intern"
	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// Instruction is the evaluator's node type. It is exactly value.Evaluable;
// the alias exists so eval/*.go reads naturally without importing value
// for this one name everywhere.
type Instruction = value.Evaluable

// Env is the fixed context every Instruction needs beyond the Scope it
// runs in: the name interner (for error messages and dynamic lookups) and
// the extension registry (read once at Generate time, not carried in
// Env, but kept here for instructions that build closures dynamically,
// e.g. `parse`). Context is threaded explicitly rather than hung off
// Scope, matching sentra's VM holding its globals/module table outside
// the environment chain.
type Env struct {
	Interner *intern.Table
	Registry *extern.Registry
}

// CompileSource is filled in by internal/parser's init() with a function
// that lexes, parses, and constant-folds a source string into a single
// Instruction. eval depends on parser logically (Parse instruction needs
// to compile strings) but parser already depends on eval (to generate
// instructions from its AST), so the dependency is inverted through this
// package variable instead of an import cycle.
var CompileSource func(env *Env, src, file string) (Instruction, error)

func typeError(at token.Token, format string, args ...interface{}) error {
	return errors.New(errors.TypeError, at, format, args...)
}

func nameError(at token.Token, format string, args ...interface{}) error {
	return errors.New(errors.NameError, at, format, args...)
}

func boundsError(at token.Token, format string, args ...interface{}) error {
	return errors.New(errors.BoundsError, at, format, args...)
}

func overloadError(at token.Token, format string, args ...interface{}) error {
	return errors.New(errors.OverloadError, at, format, args...)
}

// withFrame pushes a trace frame for the duration of a call-shaped
// evaluation and guarantees it is popped, the same bracket sentra's VM
// puts around CallFrame push/pop in vm.go's call path.
func withFrame(tr *trace.Stack, name string, at token.Token, f func() (value.Value, value.Control, error)) (value.Value, value.Control, error) {
	tr.Push(trace.Frame{Name: name, At: at})
	defer tr.Pop()
	return f()
}
