package ast

import (
	"rossa/internal/eval"
	"rossa/internal/token"
)

// LoadStmt is `load "path";` (spec.md §4.4).
type LoadStmt struct {
	At   token.Token
	Path string
}

func (l *LoadStmt) Pos() token.Token { return l.At }
func (l *LoadStmt) IsConst() bool    { return false }
func (l *LoadStmt) Generate(env *eval.Env) (eval.Instruction, error) {
	return &eval.Load{At: l.At, Path: l.Path, Env: env}, nil
}
