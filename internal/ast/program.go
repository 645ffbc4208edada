package ast

import (
	"rossa/internal/eval"
	"rossa/internal/token"
)

// Program is the root node of a parsed source file or REPL chunk: a flat
// sequence of top-level statements sharing one scope, the way sentra's
// compiler walks a parser.Program's Statements slice at the top level.
type Program struct {
	At    token.Token
	Stmts []Node
}

func (p *Program) Pos() token.Token { return p.At }
func (p *Program) IsConst() bool    { return false }
func (p *Program) Generate(env *eval.Env) (eval.Instruction, error) {
	stmts := make([]eval.Instruction, len(p.Stmts))
	for i, st := range p.Stmts {
		instr, err := st.Generate(env)
		if err != nil {
			return nil, err
		}
		stmts[i] = instr
	}
	return &eval.Sequence{Stmts: stmts}, nil
}
