package eval

import (
	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// ClassDecl evaluates a struct/static/virtual class body once, declaring
// the class object under ClassHash in the enclosing scope. The class
// object is itself a Value of Kind Object wrapping a scope of the
// declared Kind (Struct, Static, or Virtual), so
// static members and methods are reached by ordinary Inner member
// access, and an Instance scope later parents on this same Scope so
// method lookup falls out of the normal lexical walk (spec.md §3.3).
type ClassDecl struct {
	At        token.Token
	Name      int
	ClassHash int
	Kind      value.ScopeKind // Struct, Static, or Virtual (spec.md §3.3)
	Bases     []Instruction
	Body      Instruction
}

func (c *ClassDecl) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	classScope := value.NewClassScope(s, c.Kind, c.ClassHash, nil, c.Body)

	for _, b := range c.Bases {
		base, ctrl, err := b.Eval(s, tr)
		if err != nil || ctrl != value.Casual {
			return base, ctrl, err
		}
		switch base.Kind {
		case value.KindObject:
			baseScope := base.Object().Scope
			classScope.Extensions = appendUnique(classScope.Extensions, baseScope.Extensions...)
			classScope.Extensions = appendUnique(classScope.Extensions, baseScope.ClassHash)
			if baseScope.Body != nil {
				if _, _, err := baseScope.Body.Eval(classScope, tr); err != nil {
					return value.Nil, value.Casual, err
				}
			}
		case value.KindType:
			classScope.Extensions = appendUnique(classScope.Extensions, int(base.TypeCode()))
		default:
			return value.Nil, value.Casual, typeError(c.At, "cannot extend a %s", base.Kind)
		}
	}

	if _, _, err := c.Body.Eval(classScope, tr); err != nil {
		return value.Nil, value.Casual, err
	}
	handle := value.NewObjectHandle(classScope)
	obj := value.NewObject(handle)
	s.Declare(c.Name, obj)
	return obj, value.Casual, nil
}

func appendUnique(list []int, items ...int) []int {
	for _, it := range items {
		found := false
		for _, h := range list {
			if h == it {
				found = true
				break
			}
		}
		if !found {
			list = append(list, it)
		}
	}
	return list
}

// New instantiates Class with Args, per spec.md §4.5: a fresh Instance
// scope parented on the class's own scope (so inherited/static methods
// resolve through the ordinary parent walk), then the "init" hook is
// invoked if the class (or a base it extends) declares one.
type New struct {
	At    token.Token
	Class Instruction
	Args  []Instruction
	ByRef []bool
}

func (n *New) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	cls, ctrl, err := n.Class.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return cls, ctrl, err
	}
	if cls.Kind != value.KindObject || cls.Object() == nil {
		return value.Nil, value.Casual, typeError(n.At, "new expects a class, got %s", cls.Kind)
	}
	classScope := cls.Object().Scope
	switch classScope.Kind {
	case value.Virtual:
		return value.Nil, value.Casual, typeError(n.At, "cannot instantiate virtual class %q directly", n.At.Text)
	case value.Static:
		return value.Nil, value.Casual, typeError(n.At, "cannot instantiate static class %q", n.At.Text)
	}

	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v, ctrl, err := a.Eval(s, tr)
		if err != nil || ctrl != value.Casual {
			return v, ctrl, err
		}
		args[i] = v
	}

	inst := value.NewClassScope(classScope, value.Instance, classScope.ClassHash, classScope.Extensions, nil)
	handle := value.NewObjectHandle(inst)
	obj := value.NewObject(handle)

	if ih := value.InitHash(); ih >= 0 {
		if init, ok := inst.Get(ih); ok && init.Kind == value.KindFunction && !init.Function().IsEmpty() {
			if _, _, err := InvokeMethod(init, obj, args, n.ByRef, n.At, tr); err != nil {
				return value.Nil, value.Casual, err
			}
		}
	}
	return obj, value.Casual, nil
}

// TypeOf implements the `@expr` operator: the augmented Type of a value
// (spec.md §4.5, GLOSSARY "Augmented type").
type TypeOf struct {
	At     token.Token
	Target Instruction
}

func (t *TypeOf) Eval(s *value.Scope, tr *trace.Stack) (value.Value, value.Control, error) {
	v, ctrl, err := t.Target.Eval(s, tr)
	if err != nil || ctrl != value.Casual {
		return v, ctrl, err
	}
	return value.TypeVal(v.AugmentedKind()), value.Casual, nil
}
