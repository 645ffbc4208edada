package ast

import (
	"rossa/internal/eval"
	"rossa/internal/token"
)

// ArrayLitNode is `[a, b, c]`.
type ArrayLitNode struct {
	At    token.Token
	Elems []Node
}

func (a *ArrayLitNode) Pos() token.Token { return a.At }
func (a *ArrayLitNode) IsConst() bool {
	for _, e := range a.Elems {
		if !e.IsConst() {
			return false
		}
	}
	return true
}
func (a *ArrayLitNode) Generate(env *eval.Env) (eval.Instruction, error) {
	elems := make([]eval.Instruction, len(a.Elems))
	for i, e := range a.Elems {
		instr, err := e.Generate(env)
		if err != nil {
			return nil, err
		}
		elems[i] = instr
	}
	return &eval.ArrayLit{At: a.At, Elems: elems}, nil
}

// DictLitNode is `{k: v, ...}`.
type DictLitNode struct {
	At     token.Token
	Keys   []Node
	Values []Node
}

func (d *DictLitNode) Pos() token.Token { return d.At }
func (d *DictLitNode) IsConst() bool {
	for i := range d.Keys {
		if !d.Keys[i].IsConst() || !d.Values[i].IsConst() {
			return false
		}
	}
	return true
}
func (d *DictLitNode) Generate(env *eval.Env) (eval.Instruction, error) {
	keys := make([]eval.Instruction, len(d.Keys))
	values := make([]eval.Instruction, len(d.Values))
	for i := range d.Keys {
		k, err := d.Keys[i].Generate(env)
		if err != nil {
			return nil, err
		}
		v, err := d.Values[i].Generate(env)
		if err != nil {
			return nil, err
		}
		keys[i] = k
		values[i] = v
	}
	return &eval.DictLit{At: d.At, Keys: keys, Values: values}, nil
}
