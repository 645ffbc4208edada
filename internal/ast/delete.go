package ast

import (
	"fmt"

	"rossa/internal/eval"
	"rossa/internal/token"
)

// DeleteExpr is `delete target` (spec.md §4.3's `delete` operator, prec
// 1): target must be an index or member-access expression, since
// `delete` mutates the container or object it names rather than
// producing a value of its own.
type DeleteExpr struct {
	At     token.Token
	Target Node
}

func (d *DeleteExpr) Pos() token.Token { return d.At }
func (d *DeleteExpr) IsConst() bool    { return false }
func (d *DeleteExpr) Generate(env *eval.Env) (eval.Instruction, error) {
	switch t := d.Target.(type) {
	case *IndexExpr:
		c, err := t.Container.Generate(env)
		if err != nil {
			return nil, err
		}
		k, err := t.Key.Generate(env)
		if err != nil {
			return nil, err
		}
		return &eval.DeleteIndex{At: d.At, Container: c, Key: k}, nil
	case *InnerExpr:
		target, err := t.Target.Generate(env)
		if err != nil {
			return nil, err
		}
		return &eval.DeleteInner{At: d.At, Target: target, Member: t.Member}, nil
	default:
		return nil, fmt.Errorf("delete target must be an index or member expression (at %s:%d)", d.At.File, d.At.Line)
	}
}
