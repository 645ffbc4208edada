package eval

import (
	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// WireLifecycleHooks installs value.RemInvoker so ObjectHandle.Release can
// call a dying Instance's "rem" method through the normal method-call
// path (spec.md §3.3, §8.1 invariant 6), and registers the interned
// handles for "rem", "init", and "this" that Scope/eval recognize by
// number rather than by re-hashing a string on every call. The host
// (internal/repl or cmd/rossa) calls this once after building the name
// interner and before running any source.
func WireLifecycleHooks(remHash, initHash, thisHash int) {
	value.SetRemHash(remHash)
	value.SetInitHash(initHash)
	value.SetThisHash(thisHash)
	value.RemInvoker = func(rem value.Value, scope *value.Scope) {
		receiver := value.NewObject(value.NewObjectHandle(scope))
		tr := &trace.Stack{}
		_, _, _ = InvokeMethod(rem, receiver, nil, nil, token.Token{}, tr)
	}
}
