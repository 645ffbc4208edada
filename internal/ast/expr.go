package ast

import (
	"rossa/internal/eval"
	"rossa/internal/token"
	"rossa/internal/value"
)

// Container is a literal/folded constant node (spec.md §4.4).
type Container struct {
	At  token.Token
	Val value.Value
}

func (c *Container) Pos() token.Token { return c.At }
func (c *Container) IsConst() bool    { return true }
func (c *Container) Generate(env *eval.Env) (eval.Instruction, error) {
	return &eval.Literal{At: c.At, Val: c.Val}, nil
}

// Ident is a variable reference.
type Ident struct {
	At   token.Token
	Name int
}

func (i *Ident) Pos() token.Token { return i.At }
func (i *Ident) IsConst() bool    { return false }
func (i *Ident) Generate(env *eval.Env) (eval.Instruction, error) {
	return &eval.Variable{At: i.At, Name: i.Name}, nil
}

// This is the implicit method-receiver reference.
type This struct {
	At       token.Token
	ThisHash int
}

func (t *This) Pos() token.Token { return t.At }
func (t *This) IsConst() bool    { return false }
func (t *This) Generate(env *eval.Env) (eval.Instruction, error) {
	return &eval.This{At: t.At, ThisHash: t.ThisHash}, nil
}

// BinaryExpr is any of the binary-operator productions of spec.md §4.3's
// precedence table.
type BinaryExpr struct {
	At          token.Token
	Op          string
	OpHash      int
	Left, Right Node
}

func (b *BinaryExpr) Pos() token.Token { return b.At }
func (b *BinaryExpr) IsConst() bool    { return b.Left.IsConst() && b.Right.IsConst() }
func (b *BinaryExpr) Generate(env *eval.Env) (eval.Instruction, error) {
	l, err := b.Left.Generate(env)
	if err != nil {
		return nil, err
	}
	r, err := b.Right.Generate(env)
	if err != nil {
		return nil, err
	}
	return &eval.Binary{At: b.At, Op: b.Op, OpHash: b.OpHash, Left: l, Right: r, Interner: env.Interner}, nil
}

// UnaryExpr is a prefix `-`, `!`, or `~`.
type UnaryExpr struct {
	At      token.Token
	Op      string
	OpHash  int
	Operand Node
}

func (u *UnaryExpr) Pos() token.Token { return u.At }
func (u *UnaryExpr) IsConst() bool    { return u.Operand.IsConst() }
func (u *UnaryExpr) Generate(env *eval.Env) (eval.Instruction, error) {
	o, err := u.Operand.Generate(env)
	if err != nil {
		return nil, err
	}
	return &eval.Unary{At: u.At, Op: u.Op, OpHash: u.OpHash, Operand: o}, nil
}

// TernaryExpr is `cond ? then : else`.
type TernaryExpr struct {
	At               token.Token
	Cond, Then, Else Node
}

func (t *TernaryExpr) Pos() token.Token { return t.At }
func (t *TernaryExpr) IsConst() bool {
	return t.Cond.IsConst() && t.Then.IsConst() && t.Else.IsConst()
}
func (t *TernaryExpr) Generate(env *eval.Env) (eval.Instruction, error) {
	c, err := t.Cond.Generate(env)
	if err != nil {
		return nil, err
	}
	th, err := t.Then.Generate(env)
	if err != nil {
		return nil, err
	}
	el, err := t.Else.Generate(env)
	if err != nil {
		return nil, err
	}
	return &eval.Ternary{Cond: c, Then: th, Else: el}, nil
}

// IndexExpr is `container[key]`.
type IndexExpr struct {
	At             token.Token
	Container, Key Node
}

func (i *IndexExpr) Pos() token.Token { return i.At }
func (i *IndexExpr) IsConst() bool    { return i.Container.IsConst() && i.Key.IsConst() }
func (i *IndexExpr) Generate(env *eval.Env) (eval.Instruction, error) {
	c, err := i.Container.Generate(env)
	if err != nil {
		return nil, err
	}
	k, err := i.Key.Generate(env)
	if err != nil {
		return nil, err
	}
	return &eval.Index{At: i.At, Container: c, Key: k}, nil
}

// InnerExpr is `target.member`, with an optional free-function fallback
// name for unified-function-call syntax (spec.md §4.8).
type InnerExpr struct {
	At           token.Token
	Target       Node
	Member       int
	FallbackName int
	HasFallback  bool
}

func (i *InnerExpr) Pos() token.Token { return i.At }
func (i *InnerExpr) IsConst() bool    { return false }
func (i *InnerExpr) Generate(env *eval.Env) (eval.Instruction, error) {
	t, err := i.Target.Generate(env)
	if err != nil {
		return nil, err
	}
	in := &eval.Inner{At: i.At, Target: t, Member: i.Member}
	if i.HasFallback {
		in.Fallback = &eval.Variable{At: i.At, Name: i.FallbackName}
	}
	return in, nil
}

// LengthExpr is `.len`/`.size`.
type LengthExpr struct {
	At         token.Token
	Target     Node
	ByteLength bool
}

func (l *LengthExpr) Pos() token.Token { return l.At }
func (l *LengthExpr) IsConst() bool    { return false }
func (l *LengthExpr) Generate(env *eval.Env) (eval.Instruction, error) {
	t, err := l.Target.Generate(env)
	if err != nil {
		return nil, err
	}
	return &eval.Length{At: l.At, Target: t, ByteLength: l.ByteLength}, nil
}

// CallExpr is `callee(args...)`.
type CallExpr struct {
	At     token.Token
	Callee Node
	Args   []Node
	ByRef  []bool
}

func (c *CallExpr) Pos() token.Token { return c.At }
func (c *CallExpr) IsConst() bool    { return false }
func (c *CallExpr) Generate(env *eval.Env) (eval.Instruction, error) {
	callee, err := c.Callee.Generate(env)
	if err != nil {
		return nil, err
	}
	args := make([]eval.Instruction, len(c.Args))
	for i, a := range c.Args {
		instr, err := a.Generate(env)
		if err != nil {
			return nil, err
		}
		args[i] = instr
	}
	return &eval.Call{At: c.At, Callee: callee, Args: args, ByRef: c.ByRef}, nil
}

// NewExpr is `new Class(args...)`.
type NewExpr struct {
	At    token.Token
	Class Node
	Args  []Node
	ByRef []bool
}

func (n *NewExpr) Pos() token.Token { return n.At }
func (n *NewExpr) IsConst() bool    { return false }
func (n *NewExpr) Generate(env *eval.Env) (eval.Instruction, error) {
	cls, err := n.Class.Generate(env)
	if err != nil {
		return nil, err
	}
	args := make([]eval.Instruction, len(n.Args))
	for i, a := range n.Args {
		instr, err := a.Generate(env)
		if err != nil {
			return nil, err
		}
		args[i] = instr
	}
	return &eval.New{At: n.At, Class: cls, Args: args, ByRef: n.ByRef}, nil
}

// TypeOfExpr is `@expr`.
type TypeOfExpr struct {
	At     token.Token
	Target Node
}

func (t *TypeOfExpr) Pos() token.Token { return t.At }
func (t *TypeOfExpr) IsConst() bool    { return t.Target.IsConst() }
func (t *TypeOfExpr) Generate(env *eval.Env) (eval.Instruction, error) {
	tg, err := t.Target.Generate(env)
	if err != nil {
		return nil, err
	}
	return &eval.TypeOf{At: t.At, Target: tg}, nil
}

// CastExpr is `expr -> Type`.
type CastExpr struct {
	At     token.Token
	Src    Node
	Target value.Kind
}

func (c *CastExpr) Pos() token.Token { return c.At }
func (c *CastExpr) IsConst() bool    { return c.Src.IsConst() }
func (c *CastExpr) Generate(env *eval.Env) (eval.Instruction, error) {
	s, err := c.Src.Generate(env)
	if err != nil {
		return nil, err
	}
	return &eval.CastTo{At: c.At, Src: s, Target: c.Target, Interner: env.Interner}, nil
}
