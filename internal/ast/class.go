package ast

import (
	"rossa/internal/eval"
	"rossa/internal/token"
	"rossa/internal/value"
)

// ClassDeclNode is `struct|static|virtual Name [: Base, ...] { body }`
// (spec.md §3.3). Bases names the parent classes by expression rather
// than by hash alone, since their own extension lists aren't known until
// they're evaluated (spec.md §4.8: "The list is the parent's extension
// list with the parent's own class hash appended"). Kind records which of
// the three introducing keywords was used, since Struct/Static/Virtual
// differ in whether `new` accepts them (spec.md §3.3).
type ClassDeclNode struct {
	At        token.Token
	Name      int
	ClassHash int
	Kind      value.ScopeKind
	Bases     []Node
	Body      Node
}

func (c *ClassDeclNode) Pos() token.Token { return c.At }
func (c *ClassDeclNode) IsConst() bool    { return false }
func (c *ClassDeclNode) Generate(env *eval.Env) (eval.Instruction, error) {
	body, err := c.Body.Generate(env)
	if err != nil {
		return nil, err
	}
	bases := make([]eval.Instruction, len(c.Bases))
	for i, b := range c.Bases {
		instr, err := b.Generate(env)
		if err != nil {
			return nil, err
		}
		bases[i] = instr
	}
	return &eval.ClassDecl{At: c.At, Name: c.Name, ClassHash: c.ClassHash, Kind: c.Kind, Bases: bases, Body: body}, nil
}
