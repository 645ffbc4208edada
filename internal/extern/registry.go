// Package extern is the extension registry of spec.md §1, §4.5 (the
// EXTERN instruction), §6.2, and §9: a process-wide, append-only map from
// (library, function) to a host callback, populated the way sentra's
// internal/vm RegisterBuiltin / internal/stdlib registration functions
// populate the VM's builtin table, except keyed by a (library, function)
// pair instead of a flat name so multiple "libraries" can each expose a
// "connect" or "send" without colliding.
package extern

import (
	"sync"

	"rossa/internal/intern"
	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// Callback is the extension ABI of spec.md §6.2:
//
//	fn extf(args: &[Value], at: &Token, interner: &mut Hash, trace: &mut StackTrace) -> Value
type Callback func(args []value.Value, at token.Token, interner *intern.Table, tr *trace.Stack) (value.Value, error)

type key struct{ lib, fn string }

// Registry is the extension function table. How it gets populated
// (dynamic library loading, a host-side stdlib package) is external to
// the core per spec.md §1 — the core only reads it through Lookup.
type Registry struct {
	mu    sync.RWMutex
	table map[key]Callback
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{table: make(map[key]Callback)}
}

// Register binds (lib, fn) to cb. Registering the same pair twice
// replaces the callback, matching an append-only *table of names* whose
// values may still be updated by a reloading host.
func (r *Registry) Register(lib, fn string, cb Callback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table[key{lib, fn}] = cb
}

// Lookup returns the callback bound to (lib, fn), if any. The parser
// calls this at `extern name in "lib";` generation time and errors if
// absent (spec.md §6.2: "the parser errors ... if the pair is not
// already registered").
func (r *Registry) Lookup(lib, fn string) (Callback, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cb, ok := r.table[key{lib, fn}]
	return cb, ok
}
