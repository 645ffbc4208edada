// Package repl is the interactive front end of spec.md §6.3: it wires a
// name interner, an extension registry, and the module-loader hook the
// core leaves to the host, the way sentra's internal/repl.Start wires a
// fresh vm.VM per session, generalized to Rossa's file-based `load`
// semantics.
package repl

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"rossa/internal/eval"
	"rossa/internal/extern"
	"rossa/internal/intern"
	"rossa/internal/parser"
	"rossa/internal/stdlib"
	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// Host bundles everything a running Rossa program needs that the core
// deliberately doesn't own: the interner, the extension registry, the
// top-level (global) scope, and the module cache behind `load`.
type Host struct {
	Interner *intern.Table
	Registry *extern.Registry
	Env      *eval.Env
	Global   *value.Scope

	mu      sync.Mutex
	roots   []string
	modules map[string]eval.Instruction
}

// NewHost builds a Host with the standard library registered and the
// lifecycle hooks ("rem"/"init"/"this") and module loader wired, the
// sequence spec.md §6.2's mediator-pattern discussion describes as the
// host's one-time setup before running any source. withStdlib lets the
// CLI's `--no-stdlib` flag skip stdlib.RegisterAll (spec.md §6.3).
func NewHost(withStdlib bool, roots ...string) *Host {
	in := intern.New()
	reg := extern.New()
	if withStdlib {
		stdlib.RegisterAll(reg)
	}
	env := &eval.Env{Interner: in, Registry: reg}
	h := &Host{
		Interner: in,
		Registry: reg,
		Env:      env,
		Global:   value.NewScope(nil),
		roots:    roots,
		modules:  make(map[string]eval.Instruction),
	}
	eval.WireLifecycleHooks(in.Hash("rem"), in.Hash("init"), in.Hash("this"))
	eval.LoadModule = h.loadModule
	return h
}

// Run parses, folds, generates, and evaluates src against the host's
// global scope, returning the value of its last top-level statement
// (spec.md §4.4: "Program ::= sequence of top-level statements").
func (h *Host) Run(src, file string) (value.Value, error) {
	prog, err := parser.Parse(src, file, h.Env)
	if err != nil {
		return value.Nil, err
	}
	instr, err := prog.Generate(h.Env)
	if err != nil {
		return value.Nil, err
	}
	v, _, err := instr.Eval(h.Global, &trace.Stack{})
	return v, err
}

// RunFile reads path and runs it as a whole program.
func (h *Host) RunFile(path string) (value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return value.Nil, fmt.Errorf("rossa: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		h.roots = append([]string{filepath.Dir(abs)}, h.roots...)
	}
	return h.Run(string(data), path)
}

// loadModule resolves `load "path";` against the host's search roots —
// the script's own directory first, then any configured search roots,
// then the process's working directory — caching each resolved module's compiled Instruction so a
// module loaded from two call sites compiles once (spec.md's "whatever
// caching the host wants to apply").
func (h *Host) loadModule(env *eval.Env, path string, at token.Token) (eval.Instruction, error) {
	resolved, data, err := h.resolve(path)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", path, err)
	}

	h.mu.Lock()
	if instr, ok := h.modules[resolved]; ok {
		h.mu.Unlock()
		return instr, nil
	}
	h.mu.Unlock()

	prog, err := parser.Parse(string(data), resolved, env)
	if err != nil {
		return nil, err
	}
	instr, err := prog.Generate(env)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	h.modules[resolved] = instr
	h.mu.Unlock()
	return instr, nil
}

func (h *Host) resolve(path string) (string, []byte, error) {
	candidates := make([]string, 0, len(h.roots)+1)
	for _, root := range h.roots {
		candidates = append(candidates, filepath.Join(root, path))
	}
	candidates = append(candidates, path)
	var lastErr error
	for _, c := range candidates {
		data, err := os.ReadFile(c)
		if err == nil {
			abs, absErr := filepath.Abs(c)
			if absErr != nil {
				abs = c
			}
			return abs, data, nil
		}
		lastErr = err
	}
	return "", nil, lastErr
}
