package value

import "sync/atomic"

// ScopeKind is one of the five environment/object flavors of spec.md §3.3.
type ScopeKind int

const (
	Bounded ScopeKind = iota
	Struct
	Static
	Instance
	Virtual
)

func (k ScopeKind) String() string {
	switch k {
	case Bounded:
		return "Bounded"
	case Struct:
		return "Struct"
	case Static:
		return "Static"
	case Instance:
		return "Instance"
	case Virtual:
		return "Virtual"
	default:
		return "?"
	}
}

// remHash is the interned handle for the "rem" deleter binding name. The
// evaluator sets this once at startup via SetRemHash, since the intern
// table is owned by the host, not this package.
var remHash = -1

// SetRemHash lets the host register the interned handle of "rem" once,
// at interpreter construction, so Scope can recognize the deleter binding
// without importing the intern table itself.
func SetRemHash(h int) { remHash = h }

// initHash is the interned handle for the "init" constructor hook,
// invoked by New the same way Release invokes "rem" on the way out.
var initHash = -1

// SetInitHash registers the interned handle of "init".
func SetInitHash(h int) { initHash = h }

// InitHash returns the handle registered via SetInitHash, or -1 if none.
func InitHash() int { return initHash }

// thisHash is the interned handle for the implicit method receiver
// binding "this", declared directly into a method's call scope rather
// than counted as a positional parameter (spec.md §3.3/§3.4: method
// arity excludes the receiver).
var thisHash = -1

// SetThisHash registers the interned handle of "this".
func SetThisHash(h int) { thisHash = h }

// ThisHash returns the handle registered via SetThisHash, or -1 if none.
func ThisHash() int { return thisHash }

// Scope is the lexical environment and, doubling as an Object, the
// runtime representation of a class instance (spec.md §3.3). The parent
// link is conceptually weak (spec.md §9): Scope never keeps its parent
// alive, it only walks it for lookups.
type Scope struct {
	Parent     *Scope
	Kind       ScopeKind
	ClassHash  int   // 0 (no class) unless Kind is Struct/Static/Instance/Virtual
	NameTrace  []int // parent class name path
	Extensions []int // hashed names of inherited classes/interfaces
	Body       Evaluable

	bindings map[int]Value
}

// NewScope creates a Bounded child scope, the ephemeral block scope used
// by if/while/for/{} (spec.md §3.3).
func NewScope(parent *Scope) *Scope {
	return &Scope{Parent: parent, Kind: Bounded, bindings: make(map[int]Value)}
}

// NewClassScope creates a Struct/Static/Instance/Virtual scope.
func NewClassScope(parent *Scope, kind ScopeKind, classHash int, extensions []int, body Evaluable) *Scope {
	return &Scope{
		Parent:     parent,
		Kind:       kind,
		ClassHash:  classHash,
		Extensions: extensions,
		Body:       body,
		bindings:   make(map[int]Value),
	}
}

// Get walks the parent chain looking up name (spec.md §4.8
// get_variable).
func (s *Scope) Get(name int) (Value, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if v, ok := sc.bindings[name]; ok {
			return v, true
		}
	}
	return Nil, false
}

// GetLocal looks up name only in this frame.
func (s *Scope) GetLocal(name int) (Value, bool) {
	v, ok := s.bindings[name]
	return v, ok
}

// Declare introduces/overwrites name in the current frame
// (create_variable, spec.md §4.8). If the existing local binding and the
// new value are both Functions, their overload tables merge rather than
// the new value replacing the old (spec.md §3.4).
func (s *Scope) Declare(name int, v Value) {
	if old, ok := s.bindings[name]; ok && old.Kind == KindFunction && v.Kind == KindFunction && old.fn != nil && v.fn != nil {
		old.fn.Merge(v.fn)
		return
	}
	s.bindings[name] = v
}

// Assign mutates the nearest enclosing binding named name (spec.md §4.8:
// "Assignment at statement level is an update of the deepest existing
// binding with that name"). Reports false if no such binding exists.
// Assigning a Function onto an existing Function binding merges overload
// tables, matching Declare's merge semantics (spec.md §3.4: "Assignment
// of a Function value to another Function variable also merges").
func (s *Scope) Assign(name int, v Value) bool {
	for sc := s; sc != nil; sc = sc.Parent {
		if old, ok := sc.bindings[name]; ok {
			if old.Kind == KindFunction && v.Kind == KindFunction && old.fn != nil && v.fn != nil {
				old.fn.Merge(v.fn)
				return true
			}
			sc.bindings[name] = v
			return true
		}
	}
	return false
}

// Has reports whether name is bound anywhere in the chain.
func (s *Scope) Has(name int) bool {
	_, ok := s.Get(name)
	return ok
}

// Clear releases this frame's bindings, used between loop iterations and
// on Bounded-scope exit (spec.md §3.3: "Bounded scopes may be explicitly
// cleared by their creator to release bindings early between
// iterations"). Any Object bindings held are released, which may invoke
// their deleters.
func (s *Scope) Clear() {
	for _, v := range s.bindings {
		if v.Kind == KindObject && v.obj != nil {
			v.obj.Release()
		}
	}
	s.bindings = make(map[int]Value)
}

// Delete removes a single local binding, releasing it like Clear does
// for the whole frame (spec.md §4.3's `delete` operator acting on a
// Dictionary entry or Object member).
func (s *Scope) Delete(name int) {
	if v, ok := s.bindings[name]; ok {
		if v.Kind == KindObject && v.obj != nil {
			v.obj.Release()
		}
		delete(s.bindings, name)
	}
}

// Extends reports whether hash is in this scope's extension list
// (spec.md §3.3, §4.8).
func (s *Scope) Extends(hash int) bool {
	for _, h := range s.Extensions {
		if h == hash {
			return true
		}
	}
	return false
}

// Names returns the locally-bound interned handles, for Static member
// enumeration (`.` access) and `->Dictionary` style coercions of object
// state.
func (s *Scope) Names() []int {
	out := make([]int, 0, len(s.bindings))
	for h := range s.bindings {
		out = append(out, h)
	}
	return out
}

// ObjectHandle is the strong reference to an Instance Scope, carrying the
// manual reference count that drives the deleter (spec.md §3.3, §5, §9,
// §8.1 invariant 6: "Deleter is called exactly once per Instance when
// the last strong reference is dropped").
//
// Fidelity note (see DESIGN.md): the count tracks bindings (scope frames,
// explicit variable slots) and explicit Retain/Release pairs taken by the
// evaluator around assignment and scope exit. It is not traced through
// arbitrary nested Array/Dictionary payloads holding Objects — Go's GC
// reclaims the memory regardless, so under-counting only risks a
// slightly late `rem` call rather than a leak or a crash.
type ObjectHandle struct {
	Scope *Scope
	refs  int32
	dead  bool
}

// NewObjectHandle wraps scope with an initial strong reference.
func NewObjectHandle(scope *Scope) *ObjectHandle {
	return &ObjectHandle{Scope: scope, refs: 1}
}

// Retain increments the strong count and returns the same handle, for use
// wherever an Object value is duplicated into a new binding.
func (h *ObjectHandle) Retain() *ObjectHandle {
	atomic.AddInt32(&h.refs, 1)
	return h
}

// Release decrements the strong count; at zero it invokes the `rem`
// binding on the underlying scope exactly once.
func (h *ObjectHandle) Release() {
	if h == nil || h.dead {
		return
	}
	if atomic.AddInt32(&h.refs, -1) > 0 {
		return
	}
	if h.dead {
		return
	}
	h.dead = true
	if remHash < 0 {
		return
	}
	if rem, ok := h.Scope.GetLocal(remHash); ok && rem.Kind == KindFunction {
		h.invokeRem(rem)
	}
}

// RemInvoker is set by the evaluator package at startup (it alone knows
// how to call a Function value); left nil it is a no-op, which only
// matters for tests that construct scopes without wiring the evaluator.
var RemInvoker func(rem Value, scope *Scope)

func (h *ObjectHandle) invokeRem(rem Value) {
	if RemInvoker != nil {
		RemInvoker(rem, h.Scope)
	}
}
