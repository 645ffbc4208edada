package ast

import (
	"rossa/internal/eval"
	"rossa/internal/token"
)

// RangeExpr is `from..to[:step]` / `from<>to[:step]` used as an expression,
// materializing a concrete Array (spec.md §4.7). The UntilStmt form
// drives `for`-style range loops instead.
type RangeExpr struct {
	At             token.Token
	From, To, Step Node // Step may be nil
	Inclusive      bool
}

func (r *RangeExpr) Pos() token.Token { return r.At }
func (r *RangeExpr) IsConst() bool {
	if r.Step != nil && !r.Step.IsConst() {
		return false
	}
	return r.From.IsConst() && r.To.IsConst()
}
func (r *RangeExpr) Generate(env *eval.Env) (eval.Instruction, error) {
	from, err := r.From.Generate(env)
	if err != nil {
		return nil, err
	}
	to, err := r.To.Generate(env)
	if err != nil {
		return nil, err
	}
	var step eval.Instruction
	if r.Step != nil {
		step, err = r.Step.Generate(env)
		if err != nil {
			return nil, err
		}
	}
	return &eval.Range{At: r.At, From: from, To: to, Step: step, Inclusive: r.Inclusive}, nil
}
