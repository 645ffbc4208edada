package ast

import (
	"rossa/internal/eval"
	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// SeqStmt runs a list of statements/expressions in order (spec.md §4.4).
type SeqStmt struct {
	At    token.Token
	Stmts []Node
}

func (q *SeqStmt) Pos() token.Token { return q.At }
func (q *SeqStmt) IsConst() bool    { return false }
func (q *SeqStmt) Generate(env *eval.Env) (eval.Instruction, error) {
	instrs := make([]eval.Instruction, len(q.Stmts))
	for i, st := range q.Stmts {
		instr, err := st.Generate(env)
		if err != nil {
			return nil, err
		}
		instrs[i] = instr
	}
	return &eval.Sequence{Stmts: instrs}, nil
}

// BlockStmt is `{ ... }`: a SeqStmt run in a fresh Bounded scope.
type BlockStmt struct {
	At   token.Token
	Body *SeqStmt
}

func (b *BlockStmt) Pos() token.Token { return b.At }
func (b *BlockStmt) IsConst() bool    { return false }
func (b *BlockStmt) Generate(env *eval.Env) (eval.Instruction, error) {
	body, err := b.Body.Generate(env)
	if err != nil {
		return nil, err
	}
	return &eval.ScopeBlock{Body: body}, nil
}

// DeclStmt is `var`/`const` (`:=`) declaration of one or more names.
type DeclStmt struct {
	At    token.Token
	Names []int
	Inits []Node // parallel to Names, nil entries allowed
	Const bool
}

func (d *DeclStmt) Pos() token.Token { return d.At }
func (d *DeclStmt) IsConst() bool    { return false }
func (d *DeclStmt) Generate(env *eval.Env) (eval.Instruction, error) {
	inits := make([]eval.Instruction, len(d.Names))
	for i, n := range d.Inits {
		if n == nil {
			continue
		}
		instr, err := n.Generate(env)
		if err != nil {
			return nil, err
		}
		inits[i] = instr
	}
	return &eval.DeclareVars{At: d.At, Names: d.Names, Inits: inits, Const: d.Const}, nil
}

// SetStmt is `name = rhs`.
type SetStmt struct {
	At   token.Token
	Name int
	Rhs  Node
}

func (s *SetStmt) Pos() token.Token { return s.At }
func (s *SetStmt) IsConst() bool    { return false }
func (s *SetStmt) Generate(env *eval.Env) (eval.Instruction, error) {
	rhs, err := s.Rhs.Generate(env)
	if err != nil {
		return nil, err
	}
	return &eval.Set{At: s.At, Name: s.Name, Rhs: rhs}, nil
}

// SetIndexStmt is `container[key] = rhs`.
type SetIndexStmt struct {
	At                  token.Token
	Container, Key, Rhs Node
}

func (s *SetIndexStmt) Pos() token.Token { return s.At }
func (s *SetIndexStmt) IsConst() bool    { return false }
func (s *SetIndexStmt) Generate(env *eval.Env) (eval.Instruction, error) {
	c, err := s.Container.Generate(env)
	if err != nil {
		return nil, err
	}
	k, err := s.Key.Generate(env)
	if err != nil {
		return nil, err
	}
	r, err := s.Rhs.Generate(env)
	if err != nil {
		return nil, err
	}
	return &eval.SetIndex{At: s.At, Container: c, Key: k, Rhs: r}, nil
}

// SetInnerStmt is `target.member = rhs`.
type SetInnerStmt struct {
	At             token.Token
	Target         Node
	Member         int
	Rhs            Node
}

func (s *SetInnerStmt) Pos() token.Token { return s.At }
func (s *SetInnerStmt) IsConst() bool    { return false }
func (s *SetInnerStmt) Generate(env *eval.Env) (eval.Instruction, error) {
	t, err := s.Target.Generate(env)
	if err != nil {
		return nil, err
	}
	r, err := s.Rhs.Generate(env)
	if err != nil {
		return nil, err
	}
	return &eval.SetInner{At: s.At, Target: t, Member: s.Member, Rhs: r}, nil
}

// IfStmt is `if cond then-body [else else-body]`.
type IfStmt struct {
	At               token.Token
	Cond, Then, Else Node // Else may be nil
}

func (i *IfStmt) Pos() token.Token { return i.At }
func (i *IfStmt) IsConst() bool    { return false }
func (i *IfStmt) Generate(env *eval.Env) (eval.Instruction, error) {
	c, err := i.Cond.Generate(env)
	if err != nil {
		return nil, err
	}
	th, err := i.Then.Generate(env)
	if err != nil {
		return nil, err
	}
	var el eval.Instruction
	if i.Else != nil {
		el, err = i.Else.Generate(env)
		if err != nil {
			return nil, err
		}
	}
	return &eval.IfElse{Cond: c, Then: th, Else: el}, nil
}

// WhileStmt is `while cond { body }`.
type WhileStmt struct {
	At         token.Token
	Cond, Body Node
}

func (w *WhileStmt) Pos() token.Token { return w.At }
func (w *WhileStmt) IsConst() bool    { return false }
func (w *WhileStmt) Generate(env *eval.Env) (eval.Instruction, error) {
	c, err := w.Cond.Generate(env)
	if err != nil {
		return nil, err
	}
	b, err := w.Body.Generate(env)
	if err != nil {
		return nil, err
	}
	return &eval.While{Cond: c, Body: b}, nil
}

// ForInStmt is `for name in iterable { body }`.
type ForInStmt struct {
	At             token.Token
	Name           int
	Iterable, Body Node
}

func (f *ForInStmt) Pos() token.Token { return f.At }
func (f *ForInStmt) IsConst() bool    { return false }
func (f *ForInStmt) Generate(env *eval.Env) (eval.Instruction, error) {
	it, err := f.Iterable.Generate(env)
	if err != nil {
		return nil, err
	}
	b, err := f.Body.Generate(env)
	if err != nil {
		return nil, err
	}
	return &eval.ForIn{At: f.At, Name: f.Name, Iterable: it, Body: b}, nil
}

// UntilStmt is the `from..to[:step]`/`from<>to[:step]` range loop.
type UntilStmt struct {
	At                  token.Token
	Name                int
	From, To, Step, Body Node // Step may be nil
	Inclusive           bool
}

func (u *UntilStmt) Pos() token.Token { return u.At }
func (u *UntilStmt) IsConst() bool    { return false }
func (u *UntilStmt) Generate(env *eval.Env) (eval.Instruction, error) {
	from, err := u.From.Generate(env)
	if err != nil {
		return nil, err
	}
	to, err := u.To.Generate(env)
	if err != nil {
		return nil, err
	}
	var step eval.Instruction
	if u.Step != nil {
		step, err = u.Step.Generate(env)
		if err != nil {
			return nil, err
		}
	}
	body, err := u.Body.Generate(env)
	if err != nil {
		return nil, err
	}
	return &eval.Until{At: u.At, Name: u.Name, From: from, To: to, Step: step, Inclusive: u.Inclusive, Body: body}, nil
}

// BreakStmt, ContinueStmt, ReturnStmt, ReferStmt carry the four
// non-casual Control tags (spec.md §9).
type BreakStmt struct {
	At  token.Token
	Val Node // nil for a bare break
}

func (b *BreakStmt) Pos() token.Token { return b.At }
func (b *BreakStmt) IsConst() bool    { return false }
func (b *BreakStmt) Generate(env *eval.Env) (eval.Instruction, error) {
	var v eval.Instruction
	if b.Val != nil {
		instr, err := b.Val.Generate(env)
		if err != nil {
			return nil, err
		}
		v = instr
	}
	return &eval.Break{Val: v}, nil
}

type ContinueStmt struct{ At token.Token }

func (c *ContinueStmt) Pos() token.Token                        { return c.At }
func (c *ContinueStmt) IsConst() bool                           { return false }
func (c *ContinueStmt) Generate(*eval.Env) (eval.Instruction, error) { return &eval.Continue{}, nil }

type ReturnStmt struct {
	At  token.Token
	Val Node
}

func (r *ReturnStmt) Pos() token.Token { return r.At }
func (r *ReturnStmt) IsConst() bool    { return false }
func (r *ReturnStmt) Generate(env *eval.Env) (eval.Instruction, error) {
	var v eval.Instruction
	if r.Val != nil {
		instr, err := r.Val.Generate(env)
		if err != nil {
			return nil, err
		}
		v = instr
	}
	return &eval.Return{Val: v}, nil
}

type ReferStmt struct {
	At  token.Token
	Val Node
}

func (r *ReferStmt) Pos() token.Token { return r.At }
func (r *ReferStmt) IsConst() bool    { return false }
func (r *ReferStmt) Generate(env *eval.Env) (eval.Instruction, error) {
	v, err := r.Val.Generate(env)
	if err != nil {
		return nil, err
	}
	return &eval.Refer{Val: v}, nil
}

// ThrowStmt is `throw expr`.
type ThrowStmt struct {
	At  token.Token
	Val Node
}

func (t *ThrowStmt) Pos() token.Token { return t.At }
func (t *ThrowStmt) IsConst() bool    { return false }
func (t *ThrowStmt) Generate(env *eval.Env) (eval.Instruction, error) {
	v, err := t.Val.Generate(env)
	if err != nil {
		return nil, err
	}
	return &eval.Throw{At: t.At, Val: v}, nil
}

// TryStmt is `try { body } catch name then { catchBody } [finally { ... }]`.
type TryStmt struct {
	At               token.Token
	Body             Node
	CatchName        int
	CatchBody        Node
	Finally          Node // nil if absent
}

func (t *TryStmt) Pos() token.Token { return t.At }
func (t *TryStmt) IsConst() bool    { return false }
func (t *TryStmt) Generate(env *eval.Env) (eval.Instruction, error) {
	body, err := t.Body.Generate(env)
	if err != nil {
		return nil, err
	}
	catch, err := t.CatchBody.Generate(env)
	if err != nil {
		return nil, err
	}
	var fin eval.Instruction
	if t.Finally != nil {
		fin, err = t.Finally.Generate(env)
		if err != nil {
			return nil, err
		}
	}
	return &eval.TryCatch{Body: body, CatchName: t.CatchName, Catch: catch, Finally: fin}, nil
}

// SwitchStmt is `switch subject of { case v: body ... } [else { body }]`.
type SwitchStmt struct {
	At      token.Token
	Subject Node
	Cases   []SwitchCaseNode
	Default Node // nil if absent
}

type SwitchCaseNode struct {
	Match Node
	Body  Node
}

func (s *SwitchStmt) Pos() token.Token { return s.At }
func (s *SwitchStmt) IsConst() bool    { return false }
func (s *SwitchStmt) Generate(env *eval.Env) (eval.Instruction, error) {
	subj, err := s.Subject.Generate(env)
	if err != nil {
		return nil, err
	}
	cases := make([]eval.SwitchCase, len(s.Cases))
	for i, c := range s.Cases {
		m, err := c.Match.Generate(env)
		if err != nil {
			return nil, err
		}
		b, err := c.Body.Generate(env)
		if err != nil {
			return nil, err
		}
		cases[i] = eval.SwitchCase{Match: m, Body: b}
	}
	var def eval.Instruction
	if s.Default != nil {
		def, err = s.Default.Generate(env)
		if err != nil {
			return nil, err
		}
	}
	return &eval.Switch{At: s.At, Subject: subj, Cases: cases, Default: def}, nil
}

// ExternDecl is `extern name in "lib";` (spec.md §6.2): the (lib, name)
// pair is looked up in the registry right here, at generate time, and
// the parser errors immediately if it is not already registered.
type ExternDecl struct {
	At       token.Token
	Name     int
	Lib, Fn  string
}

func (e *ExternDecl) Pos() token.Token { return e.At }
func (e *ExternDecl) IsConst() bool    { return false }
func (e *ExternDecl) Generate(env *eval.Env) (eval.Instruction, error) {
	cb, ok := env.Registry.Lookup(e.Lib, e.Fn)
	if !ok {
		return nil, &missingExternError{at: e.At, lib: e.Lib, fn: e.Fn}
	}
	fnVal := eval.NewExternFunction(e.Name, e.Lib, e.Fn, cb, env.Interner)
	return &declareLiteral{At: e.At, Name: e.Name, Val: fnVal}, nil
}

type missingExternError struct {
	at       token.Token
	lib, fn  string
}

func (m *missingExternError) Error() string {
	return "no extension function registered for " + m.lib + "." + m.fn + " (at " + m.at.File + ")"
}

// declareLiteral declares a precomputed Value under Name; used by
// ExternDecl, which already has its Function value in hand at generate
// time and has no expression left to evaluate.
type declareLiteral struct {
	At   token.Token
	Name int
	Val  value.Value
}

func (d *declareLiteral) Eval(s *value.Scope, _ *trace.Stack) (value.Value, value.Control, error) {
	s.Declare(d.Name, d.Val)
	return d.Val, value.Casual, nil
}
