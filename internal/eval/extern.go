package eval

import (
	"rossa/internal/errors"
	"rossa/internal/extern"
	"rossa/internal/intern"
	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// NewExternFunction builds a Function value whose single vararg overload
// forwards its arguments to cb, the shape `extern name in "lib";`
// declares (spec.md §6.2).
func NewExternFunction(nameHash int, lib, fn string, cb extern.Callback, interner *intern.Table) value.Value {
	body := &externBody{lib: lib, fn: fn, cb: cb, interner: interner}
	f := value.NewFunction(nameHash)
	f.AddOverload(&value.Overload{IsVararg: true, Body: body, Params: []value.Param{{Name: intern.LambdaHandle, Type: value.AnyType}}})
	return value.FuncValue(f)
}

// externBody is the Evaluable installed as an extern overload's Body. It
// reads its packed argument array (declared under the vararg param's
// name by eval.invoke) and forwards to the host callback.
type externBody struct {
	lib, fn  string
	cb       extern.Callback
	interner *intern.Table
}

func (b *externBody) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	packed, ok := s.GetLocal(intern.LambdaHandle)
	var args []value.Value
	if ok && packed.Kind == value.KindArray {
		args = packed.Elems()
	}
	at := token.Token{}
	if tr.Len() > 0 {
		snap := tr.Snapshot()
		at = snap[len(snap)-1].At
	}
	v, err := b.cb(args, at, b.interner, tr)
	if err != nil {
		return value.Nil, value.Casual, errors.Wrap(errors.ExtensionError, at, err, "extension %s.%s raised: %v", b.lib, b.fn, err)
	}
	return v, value.Casual, nil
}
