// Package ast is the parse tree produced by internal/parser and consumed
// by the constant-folding pass: each Node knows how to generate its own
// Instruction (internal/eval) and whether it is a compile-time constant
// (spec.md §4.4). Unlike a classic Visitor-pattern AST, generation lives
// on the node itself, the way sentra's compiler.go turns each Stmt/Expr
// straight into bytecode rather than dispatching through a separate
// visitor type — here the "bytecode" is just the Instruction tree.
package ast

import (
	"rossa/internal/eval"
	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// Node is one parse-tree node.
type Node interface {
	// Generate builds this node's Instruction, recursively generating any
	// children first. Errors here are "parse-time" errors per spec.md §6.2
	// (e.g. an `extern` binding whose (lib, fn) pair isn't registered).
	Generate(env *eval.Env) (eval.Instruction, error)
	// IsConst reports whether this node's value can be computed without
	// running any side effects, a purely structural judgement (spec.md
	// §4.4): true for literals and for operators/calls over const operands
	// that are themselves known to be pure built-ins.
	IsConst() bool
	// Pos returns the node's source token, for error messages raised
	// during generation/folding before any Instruction exists yet.
	Pos() token.Token
}

// Fold attempts to replace n with an equivalent Container literal by
// generating and evaluating it against a throwaway scope, the way the
// constant-fold pass of spec.md §4.4 collapses `1 + 2` into `3` before
// the evaluator ever sees it. Folding is best-effort: any error (a
// runtime type error, a name that doesn't exist yet) just leaves n
// unfolded, since those are exactly the cases spec.md says must surface
// at evaluation time, not at parse time.
func Fold(env *eval.Env, n Node) Node {
	if !n.IsConst() {
		return n
	}
	instr, err := n.Generate(env)
	if err != nil {
		return n
	}
	scratch := value.NewScope(nil)
	v, ctrl, err := instr.Eval(scratch, &trace.Stack{})
	if err != nil || ctrl != value.Casual {
		return n
	}
	return &Container{At: n.Pos(), Val: v}
}
