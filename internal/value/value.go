// Package value is the runtime data model: the tagged Value variant
// (spec.md §3.2), the Function overload table (§3.4), ParamType/Signature
// structural matching (§3.5), and the Scope environment/object
// representation (§3.3). These live together in one package, the way
// sentra keeps its Value and VM/environment types inside a single "vm"
// package, because Object values embed Scope handles and Scope bindings
// embed Values — splitting them would force an import cycle.
package value

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"rossa/internal/intern"
	"rossa/internal/rnumber"
	"rossa/internal/trace"
)

// Control is the symbol-kind flag attached to a produced value, per the
// design notes in spec.md §9: "use a small enum ControlFlow<Value>
// returned by the evaluator instead of tagging the Value itself."
type Control int

const (
	// Casual is plain, non-control-flow evaluation.
	Casual Control = iota
	Break
	Continue
	Return
	Refer
)

// Evaluable is implemented by the evaluator's Instruction type. Value
// lives below the evaluator in the dependency graph, so it only needs
// this interface to hold a Scope/Function body without importing the
// evaluator package.
type Evaluable interface {
	Eval(s *Scope, tr *trace.Stack) (Value, Control, error)
}

// Value is the tagged variant of spec.md §3.2.
type Value struct {
	Kind Kind

	num  rnumber.Number
	b    bool
	str  string
	arr  *arrayData
	dict *dictData
	fn   *Function
	obj  *ObjectHandle
	typ  Kind  // payload when Kind == KindType: the type this value denotes
	ptr  interface{}
}

type arrayData struct {
	elems  []Value
	shared bool // set by MarkShared when rooted in a `:=` declaration
}

type dictData struct {
	entries map[string]Value
	shared  bool
}

// Nil is the canonical Nil value.
var Nil = Value{Kind: KindNil}

func Bool(b bool) Value     { return Value{Kind: KindBoolean, b: b} }
func Num(n rnumber.Number) Value { return Value{Kind: KindNumber, num: n} }
func Int(i int64) Value     { return Num(rnumber.Int(i)) }
func Str(s string) Value    { return Value{Kind: KindString, str: s} }
func TypeVal(k Kind) Value  { return Value{Kind: KindType, typ: k} }
func Ptr(p interface{}) Value { return Value{Kind: KindPointer, ptr: p} }

func NewArray(elems []Value) Value {
	return Value{Kind: KindArray, arr: &arrayData{elems: elems}}
}

func NewDict(entries map[string]Value) Value {
	d := &dictData{entries: map[string]Value{}}
	for k, v := range entries {
		if v.Kind != KindNil {
			d.entries[k] = v
		}
	}
	return Value{Kind: KindDictionary, dict: d}
}

func FuncValue(fn *Function) Value { return Value{Kind: KindFunction, fn: fn} }

func NewObject(h *ObjectHandle) Value { return Value{Kind: KindObject, obj: h} }

// Accessors. Panics are reserved for programmer error (wrong accessor for
// the Value's Kind) — callers in eval/ must check Kind first or use the
// As* helpers below, exactly like a sentra VM opcode checking a type
// assertion before use.

func (v Value) Number() rnumber.Number { return v.num }
func (v Value) Bool() bool             { return v.b }
func (v Value) Str() string            { return v.str }
func (v Value) TypeCode() Kind         { return v.typ }
func (v Value) Pointer() interface{}   { return v.ptr }
func (v Value) Function() *Function    { return v.fn }
func (v Value) Object() *ObjectHandle  { return v.obj }

// Elems returns the live element slice of an Array value. Mutating it
// mutates the Value's shared payload, matching the teacher's *Array with
// an Elements slice (sentra/internal/vm/value.go-adjacent array types).
func (v Value) Elems() []Value {
	if v.arr == nil {
		return nil
	}
	return v.arr.elems
}

func (v Value) SetElems(e []Value) {
	v.arr.elems = e
}

func (v Value) Entries() map[string]Value {
	if v.dict == nil {
		return nil
	}
	return v.dict.entries
}

// DictGet looks up key, pruning (and reporting absent for) Nil-valued
// entries per spec.md §3.2.
func (v Value) DictGet(key string) (Value, bool) {
	e, ok := v.dict.entries[key]
	if !ok || e.Kind == KindNil {
		return Nil, false
	}
	return e, true
}

// DictSet stores val under key; storing Nil prunes the key, matching
// spec.md §3.2's "Nil-valued entries are pruned on read" the simplest
// way a map-backed Dictionary can: prune on write, since a pruned-on-read
// Nil entry is never observably different from an absent key.
func (v Value) DictSet(key string, val Value) {
	if val.Kind == KindNil {
		delete(v.dict.entries, key)
		return
	}
	v.dict.entries[key] = val
}

// IsNil reports whether v is the Nil kind.
func (v Value) IsNil() bool { return v.Kind == KindNil }

// Truthy implements the language's notion of a condition value: Boolean
// is itself, Nil is false, a Number is true when nonzero, everything else
// is true (mirrors sentra's
// loose truthiness used by IfElse/While/ternary).
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindBoolean:
		return v.b
	case KindNil:
		return false
	case KindNumber:
		return v.num.Float64() != 0
	default:
		return true
	}
}

// AugmentedKind returns the Kind used for matching/type-of purposes: for
// Object values, the hashed class name rather than KindObject itself
// (GLOSSARY: "Augmented type").
func (v Value) AugmentedKind() Kind {
	if v.Kind == KindObject && v.obj != nil && v.obj.Scope != nil {
		return Kind(v.obj.Scope.ClassHash)
	}
	return v.Kind
}

// TypeName renders v's Type-kind payload or an Object's class the way the
// original's getTypeString does: "@ClassName" for classes, the keyword
// otherwise (spec.md §4.6 coercion table, SUPPLEMENTED FEATURES).
func TypeName(k Kind, interner *intern.Table) string {
	if !k.IsBuiltin() {
		return "@" + interner.Dehash(int(k))
	}
	return k.String()
}

// DeepCopy implements spec.md §3.2's assignment semantics: Array and
// Dictionary copy deeply; every other kind either is plain-old-data
// (copy-by-value falls out of the Go struct copy) or is always
// reference-shared (Function/Object/Pointer), so the default branch
// already does the right thing by returning a struct copy that shares
// the same payload pointer.
func (v Value) DeepCopy() Value {
	switch v.Kind {
	case KindArray:
		elems := make([]Value, len(v.arr.elems))
		for i, e := range v.arr.elems {
			elems[i] = e.DeepCopy()
		}
		return Value{Kind: KindArray, arr: &arrayData{elems: elems}}
	case KindDictionary:
		entries := make(map[string]Value, len(v.dict.entries))
		for k, e := range v.dict.entries {
			entries[k] = e.DeepCopy()
		}
		return Value{Kind: KindDictionary, dict: &dictData{entries: entries}}
	default:
		return v
	}
}

// Shared reports whether v's Array/Dictionary backing store was rooted
// by a `:=` declaration (spec.md §3.2, §8.1 invariant 4: `a := [1,2,3];
// var b = a; b[0] = 99;` must make `a[0] == 99`, so a later `var b = a`
// needs to alias rather than deep-copy). The mark lives on the backing
// pointer, not the declaring statement, so it follows the value through
// however many plain `var`/`=` bindings read it afterward.
func (v Value) Shared() bool {
	switch v.Kind {
	case KindArray:
		return v.arr != nil && v.arr.shared
	case KindDictionary:
		return v.dict != nil && v.dict.shared
	}
	return false
}

// MarkShared flags v's backing store as const-rooted in place — every
// Value still holding the same arr/dict pointer observes the mark, the
// same "mutate through the shared pointer" idea Retain/the refcounted
// ObjectHandle already rely on for Object aliasing.
func (v Value) MarkShared() Value {
	switch v.Kind {
	case KindArray:
		if v.arr != nil {
			v.arr.shared = true
		}
	case KindDictionary:
		if v.dict != nil {
			v.dict.shared = true
		}
	}
	return v
}

// Equal is spec.md §3.2's value equality: defined by kind, deep for
// Array/Dictionary.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNil:
		return true
	case KindNumber:
		return rnumber.Equal(a.num, b.num)
	case KindBoolean:
		return a.b == b.b
	case KindString:
		return a.str == b.str
	case KindType:
		return a.typ == b.typ
	case KindArray:
		ea, eb := a.arr.elems, b.arr.elems
		if len(ea) != len(eb) {
			return false
		}
		for i := range ea {
			if !Equal(ea[i], eb[i]) {
				return false
			}
		}
		return true
	case KindDictionary:
		da, db := a.dict.entries, b.dict.entries
		if len(da) != len(db) {
			return false
		}
		for k, v := range da {
			ov, ok := db[k]
			if !ok || !Equal(v, ov) {
				return false
			}
		}
		return true
	case KindFunction:
		return a.fn == b.fn
	case KindObject:
		return a.obj == b.obj
	case KindPointer:
		return a.ptr == b.ptr
	default:
		return false
	}
}

// PureEqual is spec.md §3.2's physical equality (`===`): identity for
// Object, same as Equal otherwise.
func PureEqual(a, b Value) bool {
	if a.Kind == KindObject && b.Kind == KindObject {
		if a.obj == nil || b.obj == nil {
			return a.obj == b.obj
		}
		return a.obj.Scope == b.obj.Scope
	}
	return Equal(a, b)
}

// ToString renders v for string concatenation, toString()-style coercion,
// and REPL printing (spec.md §4.6, §6.3). Dictionary iteration order is
// an explicit Open Question in spec.md §9; this implementation sorts
// keys for a deterministic, diffable rendering (documented in DESIGN.md).
func (v Value) ToString(interner *intern.Table) string {
	switch v.Kind {
	case KindNil:
		return "nil"
	case KindNumber:
		return v.num.String()
	case KindBoolean:
		return strconv.FormatBool(v.b)
	case KindString:
		return v.str
	case KindType:
		return TypeName(v.typ, interner)
	case KindArray:
		parts := make([]string, len(v.arr.elems))
		for i, e := range v.arr.elems {
			parts[i] = quoteIfString(e, interner)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindDictionary:
		keys := make([]string, 0, len(v.dict.entries))
		for k := range v.dict.entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+quoteIfString(v.dict.entries[k], interner))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindFunction:
		return fmt.Sprintf("<function %s>", interner.Dehash(v.fn.NameHash))
	case KindObject:
		if v.obj == nil || v.obj.Scope == nil {
			return "<object>"
		}
		return fmt.Sprintf("<object @%s>", interner.Dehash(v.obj.Scope.ClassHash))
	case KindPointer:
		return fmt.Sprintf("<pointer %p>", v.ptr)
	default:
		return "<nil>"
	}
}

func quoteIfString(v Value, interner *intern.Table) string {
	if v.Kind == KindString {
		return strconv.Quote(v.str)
	}
	return v.ToString(interner)
}
