package value

import "testing"

func TestDeepCopyArray(t *testing.T) {
	// spec.md §8.1 invariant 3.
	a := NewArray([]Value{Int(1), Int(2), Int(3)})
	b := a.DeepCopy()
	b.Elems()[0] = Int(99)
	if a.Elems()[0].Number().Int64() != 1 {
		t.Errorf("deep copy leaked mutation back into source array")
	}
}

func TestDeepCopyDictionary(t *testing.T) {
	a := NewDict(map[string]Value{"x": Int(1)})
	b := a.DeepCopy()
	b.DictSet("x", Int(99))
	v, _ := a.DictGet("x")
	if v.Number().Int64() != 1 {
		t.Errorf("deep copy leaked mutation back into source dict")
	}
}

func TestAliasingIsReferenceSharedForFunctionsAndObjects(t *testing.T) {
	fn := FuncValue(NewFunction(0))
	cp := fn // struct copy
	if fn.Function() != cp.Function() {
		t.Error("Function values must be reference-shared on copy")
	}
}

func TestEqualityByKind(t *testing.T) {
	if !Equal(Int(1), Int(1)) {
		t.Error("Int(1) should equal Int(1)")
	}
	if Equal(Str("a"), Int(1)) {
		t.Error("different kinds must never be equal")
	}
}

func TestPureEqualityIsPhysicalForObjects(t *testing.T) {
	s1 := NewScope(nil)
	s2 := NewScope(nil)
	o1 := NewObject(NewObjectHandle(s1))
	o2 := NewObject(NewObjectHandle(s1))
	o3 := NewObject(NewObjectHandle(s2))
	if !PureEqual(o1, o2) {
		t.Error("same underlying scope should be pure-equal")
	}
	if PureEqual(o1, o3) {
		t.Error("different underlying scopes should not be pure-equal")
	}
}

func TestNilValuedDictEntryIsPruned(t *testing.T) {
	d := NewDict(map[string]Value{"a": Nil, "b": Int(1)})
	if _, ok := d.DictGet("a"); ok {
		t.Error("Nil-valued entry should read as absent")
	}
	if _, ok := d.DictGet("b"); !ok {
		t.Error("non-nil entry should read as present")
	}
}

func TestDictSetNilPrunesKey(t *testing.T) {
	d := NewDict(map[string]Value{"a": Int(1)})
	d.DictSet("a", Nil)
	if _, ok := d.DictGet("a"); ok {
		t.Error("setting a key to Nil should prune it")
	}
}

func TestTruthy(t *testing.T) {
	if Nil.Truthy() {
		t.Error("Nil should not be truthy")
	}
	if Bool(false).Truthy() {
		t.Error("false should not be truthy")
	}
	if Int(0).Truthy() {
		t.Error("Number 0 should not be truthy")
	}
	if !Int(1).Truthy() {
		t.Error("nonzero Number should be truthy")
	}
}
