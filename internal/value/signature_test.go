package value

import "testing"

func TestScoreExactKindMatch(t *testing.T) {
	if s := Score(ParamType{Base: KindNumber}, Int(1)); s != 3 {
		t.Errorf("exact Number match = %d, want 3", s)
	}
}

func TestScoreAnyAlwaysMatchesWeakly(t *testing.T) {
	if s := Score(ParamType{Base: KindAny}, Str("x")); s != 1 {
		t.Errorf("Any match = %d, want 1", s)
	}
}

func TestScoreMismatchIsZero(t *testing.T) {
	if s := Score(ParamType{Base: KindNumber}, Str("x")); s != 0 {
		t.Errorf("Number vs String = %d, want 0", s)
	}
}

func TestScoreInheritance(t *testing.T) {
	// spec.md §8.1 invariant 5.
	const animal = 100
	dogScope := NewClassScope(nil, Instance, 200, []int{animal}, nil)
	dog := NewObject(NewObjectHandle(dogScope))
	if s := Score(ParamType{Base: Kind(animal)}, dog); s < 2 {
		t.Errorf("Dog should score >= 2 against an Animal-typed parameter, got %d", s)
	}
}

func TestMatchScoreIsMinimumAcrossArgs(t *testing.T) {
	sig := Signature{{Base: KindNumber}, {Base: KindAny}}
	if s := MatchScore(sig, []Value{Int(1), Str("x")}); s != 1 {
		t.Errorf("MatchScore = %d, want min(3,1) = 1", s)
	}
}

func TestMatchScoreZeroOnAnyMismatch(t *testing.T) {
	sig := Signature{{Base: KindNumber}, {Base: KindString}}
	if s := MatchScore(sig, []Value{Int(1), Int(2)}); s != 0 {
		t.Errorf("MatchScore = %d, want 0", s)
	}
}

func TestFunctionResolveOverloadStability(t *testing.T) {
	// spec.md §8.1 invariant 2: the unique maximal-scoring signature wins
	// regardless of other overloads' insertion order.
	fn := NewFunction(0)
	fn.AddOverload(&Overload{Params: []Param{{Type: ParamType{Base: KindAny}}}})
	fn.AddOverload(&Overload{Params: []Param{{Type: ParamType{Base: KindNumber}}}})
	fn.AddOverload(&Overload{Params: []Param{{Type: ParamType{Base: KindString}}}})

	ov, score, ok := fn.Resolve([]Value{Int(1)})
	if !ok || score != 3 {
		t.Fatalf("expected the Number overload to win with score 3, got %v score %d ok %v", ov, score, ok)
	}
	if ov.Params[0].Type.Base != KindNumber {
		t.Errorf("wrong overload selected: %v", ov.Params[0].Type.Base)
	}
}

func TestFunctionResolveFallsBackToVararg(t *testing.T) {
	fn := NewFunction(0)
	fn.AddOverload(&Overload{Params: []Param{{Type: ParamType{Base: KindNumber}}}})
	fn.Vararg = &Overload{IsVararg: true}

	_, score, ok := fn.Resolve([]Value{Str("x"), Str("y")})
	if !ok || score != 1 {
		t.Fatalf("expected vararg fallback with score 1, got score %d ok %v", score, ok)
	}
}

func TestFunctionIsEmpty(t *testing.T) {
	fn := NewFunction(0)
	if !fn.IsEmpty() {
		t.Error("fresh function should be empty")
	}
	fn.AddOverload(&Overload{Params: nil})
	if fn.IsEmpty() {
		t.Error("function with an overload should not be empty")
	}
}

func TestAddOverloadCollisionReplaces(t *testing.T) {
	fn := NewFunction(0)
	first := &Overload{Params: []Param{{Type: ParamType{Base: KindNumber}}}}
	second := &Overload{Params: []Param{{Type: ParamType{Base: KindNumber}}}}
	fn.AddOverload(first)
	fn.AddOverload(second)
	if len(fn.Overloads[1]) != 1 {
		t.Fatalf("colliding signature should replace, not append: got %d entries", len(fn.Overloads[1]))
	}
	if fn.Overloads[1][0] != second {
		t.Error("colliding signature should replace with the latest overload")
	}
}
