package value

import "testing"

func TestScopeLookupWalksParentChain(t *testing.T) {
	root := NewScope(nil)
	root.Declare(1, Int(10))
	child := NewScope(root)
	v, ok := child.Get(1)
	if !ok || v.Number().Int64() != 10 {
		t.Errorf("child scope should see parent binding, got %v, %v", v, ok)
	}
	if _, ok := child.GetLocal(1); ok {
		t.Error("GetLocal should not walk the parent chain")
	}
}

func TestAssignMutatesNearestBinding(t *testing.T) {
	root := NewScope(nil)
	root.Declare(1, Int(1))
	child := NewScope(root)
	if ok := child.Assign(1, Int(2)); !ok {
		t.Fatal("Assign should find the binding in the parent")
	}
	v, _ := root.Get(1)
	if v.Number().Int64() != 2 {
		t.Errorf("Assign should have mutated the root binding, got %v", v)
	}
}

func TestAssignUndeclaredFails(t *testing.T) {
	s := NewScope(nil)
	if s.Assign(42, Int(1)) {
		t.Error("Assign to an undeclared name should fail")
	}
}

func TestDeclareMergesFunctionOverloads(t *testing.T) {
	s := NewScope(nil)
	f1 := NewFunction(5)
	f1.AddOverload(&Overload{Params: []Param{{Type: ParamType{Base: KindNumber}}}})
	f2 := NewFunction(5)
	f2.AddOverload(&Overload{Params: []Param{{Type: ParamType{Base: KindString}}}})

	s.Declare(5, FuncValue(f1))
	s.Declare(5, FuncValue(f2))

	v, _ := s.GetLocal(5)
	if len(v.Function().Overloads[1]) != 2 {
		t.Errorf("expected merged overload table with 2 arity-1 signatures, got %d", len(v.Function().Overloads[1]))
	}
}

func TestExtends(t *testing.T) {
	animal := 100
	dog := 200
	animalScope := NewClassScope(nil, Struct, animal, nil, nil)
	_ = animalScope
	dogExtensions := []int{animal}
	dogScope := NewClassScope(nil, Instance, dog, dogExtensions, nil)
	if !dogScope.Extends(animal) {
		t.Error("Dog instance should extend Animal")
	}
	if dogScope.Extends(999) {
		t.Error("Dog instance should not extend an unrelated class")
	}
}

func TestObjectHandleDeleterCalledExactlyOnce(t *testing.T) {
	SetRemHash(7)
	defer SetRemHash(-1)

	calls := 0
	RemInvoker = func(rem Value, scope *Scope) { calls++ }
	defer func() { RemInvoker = nil }()

	sc := NewScope(nil)
	sc.Declare(7, FuncValue(NewFunction(7)))
	h := NewObjectHandle(sc)
	h.Retain()
	h.Release()
	if calls != 0 {
		t.Fatalf("deleter should not fire while a strong ref remains, got %d calls", calls)
	}
	h.Release()
	if calls != 1 {
		t.Fatalf("deleter should fire exactly once at zero refs, got %d calls", calls)
	}
	h.Release()
	if calls != 1 {
		t.Fatalf("deleter must not fire again on a dead handle, got %d calls", calls)
	}
}

func TestClearReleasesObjectBindings(t *testing.T) {
	SetRemHash(7)
	defer SetRemHash(-1)
	calls := 0
	RemInvoker = func(rem Value, scope *Scope) { calls++ }
	defer func() { RemInvoker = nil }()

	inner := NewScope(nil)
	inner.Declare(7, FuncValue(NewFunction(7)))
	h := NewObjectHandle(inner)

	block := NewScope(nil)
	block.Declare(1, NewObject(h))
	block.Clear()

	if calls != 1 {
		t.Errorf("Clear should release Object bindings, want 1 deleter call, got %d", calls)
	}
}
