package intern

import "testing"

func TestLambdaHandleReserved(t *testing.T) {
	tb := New()
	if tb.Dehash(LambdaHandle) != "<LAMBDA>" {
		t.Errorf("handle 0 should be the lambda marker, got %q", tb.Dehash(LambdaHandle))
	}
}

func TestHashIsStableAndAppendOnly(t *testing.T) {
	tb := New()
	a := tb.Hash("foo")
	b := tb.Hash("bar")
	c := tb.Hash("foo")
	if a != c {
		t.Errorf("Hash(foo) not stable: %d vs %d", a, c)
	}
	if a == b {
		t.Error("distinct strings got the same handle")
	}
	if tb.Dehash(a) != "foo" || tb.Dehash(b) != "bar" {
		t.Error("Dehash did not round-trip")
	}
}
