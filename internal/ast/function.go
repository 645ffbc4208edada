package ast

import (
	"rossa/internal/eval"
	"rossa/internal/token"
	"rossa/internal/value"
)

// ParamNode is one formal parameter in a def/lambda's parameter list.
type ParamNode struct {
	Name int
	Mode value.PassMode
	Type value.ParamType
}

// FuncLitNode is `def name(params) { body }` or a lambda expression
// (spec.md §3.4, §4.4). CaptureNames lists the free variables the body
// references from its enclosing scope, computed by the parser while
// building the node.
type FuncLitNode struct {
	At           token.Token
	NameHash     int
	Params       []ParamNode
	Body         Node
	IsVararg     bool
	CaptureNames []int
}

func (f *FuncLitNode) Pos() token.Token { return f.At }
func (f *FuncLitNode) IsConst() bool    { return false }
func (f *FuncLitNode) Generate(env *eval.Env) (eval.Instruction, error) {
	body, err := f.Body.Generate(env)
	if err != nil {
		return nil, err
	}
	params := make([]value.Param, len(f.Params))
	for i, p := range f.Params {
		params[i] = value.Param{Mode: p.Mode, Name: p.Name, Type: p.Type}
	}
	return &eval.FuncLit{
		NameHash:     f.NameHash,
		Params:       params,
		Body:         body,
		IsVararg:     f.IsVararg,
		CaptureNames: f.CaptureNames,
	}, nil
}

// DefStmt is a top-level or class-body `def name(params) { body }` (or
// its `-> expr;` single-expression shorthand, desugared by the parser
// into Lit.Body directly). It wraps FuncLitNode's bare function VALUE
// with the binding step §4.5's Declare instruction describes, so the
// name actually appears in the enclosing scope.
type DefStmt struct {
	At   token.Token
	Name int
	Lit  *FuncLitNode
}

func (d *DefStmt) Pos() token.Token { return d.At }
func (d *DefStmt) IsConst() bool    { return false }
func (d *DefStmt) Generate(env *eval.Env) (eval.Instruction, error) {
	lit, err := d.Lit.Generate(env)
	if err != nil {
		return nil, err
	}
	return &eval.DeclareFunc{Name: d.Name, Lit: lit}, nil
}
