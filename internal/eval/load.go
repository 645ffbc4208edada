package eval

import (
	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// LoadModule resolves and compiles a `load "path";` target against the
// host's configured search roots, with whatever caching the host wants
// to apply to avoid re-parsing a module loaded from two call sites
// (SPEC_FULL.md's ModuleLoader-shaped cache). Installed by internal/repl
// or cmd/rossa at startup; eval itself has no filesystem access
// (spec.md §1: file-loading directory search is a host concern).
var LoadModule func(env *Env, path string, at token.Token) (Instruction, error)

// Load is the `load "path";` statement (spec.md §4.4).
type Load struct {
	At   token.Token
	Path string
	Env  *Env
}

func (ld *Load) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	if LoadModule == nil {
		return value.Nil, value.Casual, typeError(ld.At, "load is unavailable: no module loader installed")
	}
	instr, err := LoadModule(ld.Env, ld.Path, ld.At)
	if err != nil {
		return value.Nil, value.Casual, err
	}
	return instr.Eval(s, tr)
}
