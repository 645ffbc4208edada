package eval

import (
	"rossa/internal/intern"
	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// Call invokes a Function value: `callee(args...)` (spec.md §3.4, §3.5,
// §4.5). Each argument carries whether it is passed by reference (ByRef
// parameters bind the argument's own storage, matching spec.md §3.4).
// When Callee is a method reached through `.`, the receiver is bound
// separately from Args, outside the overload's declared arity.
type Call struct {
	At     token.Token
	Callee Instruction
	Args   []Instruction
	ByRef  []bool
}

func (c *Call) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	var fn, receiver value.Value
	var mode callMode
	var isMethodCall bool
	var ctrl value.Control
	var err error

	if in, ok := c.Callee.(*Inner); ok {
		fn, receiver, mode, ctrl, err = in.resolveCallable(s, tr)
		isMethodCall = true
	} else {
		fn, ctrl, err = c.Callee.Eval(s, tr)
	}
	if err != nil || ctrl != value.Casual {
		return fn, ctrl, err
	}

	args := make([]value.Value, len(c.Args))
	for i, a := range c.Args {
		v, ctrl, err := a.Eval(s, tr)
		if err != nil || ctrl != value.Casual {
			return v, ctrl, err
		}
		args[i] = v
	}

	byRef := c.ByRef
	if isMethodCall && mode == modePrepend {
		args = append([]value.Value{receiver}, args...)
		byRef = append([]bool{false}, byRef...)
	}
	if isMethodCall && mode == modeMethod {
		return InvokeMethod(fn, receiver, args, byRef, c.At, tr)
	}
	return Invoke(fn, args, byRef, c.At, tr)
}

// Invoke resolves the best-matching overload of fn for args and runs its
// body, using spec.md §3.5's Resolve and §3.4's by-value/by-reference
// binding rule. This is the call path for plain functions, operator
// overloads, UFCS fallback, and the `rem`/`init` lifecycle hooks.
func Invoke(fn value.Value, args []value.Value, byRef []bool, at token.Token, tr *trace.Stack) (value.Value, value.Control, error) {
	return invoke(fn, nil, args, byRef, at, tr)
}

// InvokeMethod is Invoke, plus a receiver bound to the interned "this"
// handle inside the call scope, outside the overload's positional
// parameter list (spec.md §3.3/§3.4: method arity excludes the receiver).
func InvokeMethod(fn, receiver value.Value, args []value.Value, byRef []bool, at token.Token, tr *trace.Stack) (value.Value, value.Control, error) {
	return invoke(fn, &receiver, args, byRef, at, tr)
}

func invoke(fn value.Value, receiver *value.Value, args []value.Value, byRef []bool, at token.Token, tr *trace.Stack) (value.Value, value.Control, error) {
	if fn.Kind != value.KindFunction || fn.Function() == nil {
		return value.Nil, value.Casual, typeError(at, "cannot call a %s", fn.Kind)
	}
	f := fn.Function()
	if f.IsEmpty() {
		return value.Nil, value.Casual, overloadError(at, "function has no overloads")
	}
	ov, _, ok := f.Resolve(args)
	if !ok {
		return value.Nil, value.Casual, overloadError(at, "no overload of the function matches %d argument(s)", len(args))
	}

	callScope := value.NewScope(ov.Defining)
	for name, v := range ov.Captures {
		callScope.Declare(name, v)
	}
	if receiver != nil {
		if th := value.ThisHash(); th >= 0 {
			r := *receiver
			if r.Kind == value.KindObject && r.Object() != nil {
				r.Object().Retain()
			}
			callScope.Declare(th, r)
		}
	}

	if ov.IsVararg {
		elems := make([]value.Value, len(args))
		for i, a := range args {
			elems[i] = a.DeepCopy()
		}
		if len(ov.Params) > 0 {
			callScope.Declare(ov.Params[0].Name, value.NewArray(elems))
		}
	} else {
		for i, p := range ov.Params {
			a := args[i]
			passByRef := p.Mode == value.ByRef || (i < len(byRef) && byRef[i])
			if !passByRef {
				a = a.DeepCopy()
			}
			if a.Kind == value.KindObject && a.Object() != nil {
				a.Object().Retain()
			}
			callScope.Declare(p.Name, a)
		}
	}

	v, ctrl, err := withFrame(tr, frameName(f, at), at, func() (value.Value, value.Control, error) {
		return ov.Body.Eval(callScope, tr)
	})
	callScope.Clear()
	if err != nil {
		return value.Nil, value.Casual, err
	}
	return v, value.Casual, nil
}

func frameName(f *value.Function, at token.Token) string {
	if f.NameHash == intern.LambdaHandle {
		return "<lambda>"
	}
	return at.Text
}
