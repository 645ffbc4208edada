package parser

import (
	"testing"

	"rossa/internal/eval"
	"rossa/internal/extern"
	"rossa/internal/intern"
	"rossa/internal/trace"
	"rossa/internal/value"
)

func testEnv() *eval.Env {
	return &eval.Env{Interner: intern.New(), Registry: extern.New()}
}

func parseOK(t *testing.T, src string) *value.Scope {
	t.Helper()
	env := testEnv()
	prog, err := Parse(src, "test.ro", env)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	instr, err := prog.Generate(env)
	if err != nil {
		t.Fatalf("Generate(%q) error: %v", src, err)
	}
	scope := value.NewScope(nil)
	if _, _, err := instr.Eval(scope, &trace.Stack{}); err != nil {
		t.Fatalf("Eval(%q) error: %v", src, err)
	}
	return scope
}

func evalOK(t *testing.T, src string) value.Value {
	t.Helper()
	env := testEnv()
	prog, err := Parse(src, "test.ro", env)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	instr, err := prog.Generate(env)
	if err != nil {
		t.Fatalf("Generate(%q) error: %v", src, err)
	}
	v, _, err := instr.Eval(value.NewScope(nil), &trace.Stack{})
	if err != nil {
		t.Fatalf("Eval(%q) error: %v", src, err)
	}
	return v
}

func parseErr(t *testing.T, src string) {
	t.Helper()
	env := testEnv()
	prog, err := Parse(src, "test.ro", env)
	if err == nil {
		if _, genErr := prog.Generate(env); genErr == nil {
			t.Fatalf("Parse/Generate(%q) succeeded, want error", src)
		}
	}
}

func TestArithmeticPrecedence(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int64
	}{
		{"mul before add", "2 + 3 * 4;", 14},
		{"pow is right-associative", "2 ** 3 ** 2;", 512},
		{"parens override", "(2 + 3) * 4;", 20},
		{"mod", "17 % 5;", 2},
		{"floor div", "17 // 5;", 3},
		{"shift", "1 << 4;", 16},
		{"bitwise and/or", "6 & 3 | 8;", 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := evalOK(t, tt.src)
			if v.Kind != value.KindNumber {
				t.Fatalf("%s: got kind %v, want Number", tt.src, v.Kind)
			}
			got := v.Number().Int64()
			if got != tt.want {
				t.Errorf("%s = %d, want %d", tt.src, got, tt.want)
			}
		})
	}
}

func TestRangeInclusivity(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int64
	}{
		{"exclusive range excludes upper bound", "var n = 0; for i in 1..4 { n = n + i; } n;", 6},
		{"inclusive range includes upper bound", "var n = 0; for i in 1<>4 { n = n + i; } n;", 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := evalOK(t, tt.src)
			if got := v.Number().Int64(); got != tt.want {
				t.Errorf("%s = %d, want %d", tt.src, got, tt.want)
			}
		})
	}
}

func TestDefMultipleDispatch(t *testing.T) {
	src := `
def fib(0) -> 0;
def fib(1) -> 1;
def fib(n) -> fib(n - 1) + fib(n - 2);
fib(10);
`
	v := evalOK(t, src)
	if v.Kind != value.KindNumber {
		t.Fatalf("got kind %v, want Number", v.Kind)
	}
	if got := v.Number().Int64(); got != 55 {
		t.Errorf("fib(10) = %d, want 55", got)
	}
}

func TestDefArityOverload(t *testing.T) {
	src := `
def greet(name) -> "hello " ++ name;
def greet(name, loud) -> "HELLO " ++ name;
greet("a") ++ "/" ++ greet("b", true);
`
	v := evalOK(t, src)
	if v.Kind != value.KindString {
		t.Fatalf("got kind %v, want String", v.Kind)
	}
	want := "hello a/HELLO b"
	if got := v.Str(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTryCatch(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int64
	}{
		{
			"catch runs on thrown error",
			`var n = 0; try { delete [1,2][5]; n = 1; } catch e then { n = 2; } n;`,
			2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := evalOK(t, tt.src)
			if got := v.Number().Int64(); got != tt.want {
				t.Errorf("%s = %d, want %d", tt.src, got, tt.want)
			}
		})
	}
}

func TestSwitchOf(t *testing.T) {
	src := `
var x = 2;
switch x of {
	case 1: "one";
	case 2: "two";
} else { "other"; }
`
	v := evalOK(t, src)
	if v.Kind != value.KindString || v.Str() != "two" {
		t.Errorf("got %v, want String(two)", v)
	}
}

func TestClassInheritance(t *testing.T) {
	src := `
struct Animal {
	def speak() -> "...";
}
struct Dog : Animal {
	def bark() -> "woof";
}
var d = new Dog();
d.bark() ++ "/" ++ d.speak();
`
	v := evalOK(t, src)
	if v.Kind != value.KindString {
		t.Fatalf("got kind %v, want String", v.Kind)
	}
	want := "woof/..."
	if got := v.Str(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDictionaryMemberAccess(t *testing.T) {
	src := `
var m = {name: "a", xs: [1,2,3]};
if (m.xs.len == 3) && (m.name == "a") { "ok"; } else { "fail"; }
`
	v := evalOK(t, src)
	if v.Kind != value.KindString || v.Str() != "ok" {
		t.Errorf("got %v, want String(ok)", v)
	}
}

func TestDictionaryMemberAccessMissingKeyFallsBackToUFCS(t *testing.T) {
	src := `
def label(d) -> "fallback";
var m = {name: "a"};
m.label();
`
	v := evalOK(t, src)
	if v.Kind != value.KindString || v.Str() != "fallback" {
		t.Errorf("got %v, want String(fallback)", v)
	}
}

func TestConstAliasing(t *testing.T) {
	src := `
a := [1, 2, 3];
var b = a;
b[0] = 99;
a[0];
`
	v := evalOK(t, src)
	if v.Kind != value.KindNumber || v.Number().Int64() != 99 {
		t.Errorf("var b = a; b[0] = 99; a[0] = %v, want Number(99)", v)
	}
}

func TestConstAliasingTransitiveThroughPlainVar(t *testing.T) {
	src := `
a := [1, 2, 3];
var b = a;
var c = b;
c[0] = 7;
a[0];
`
	v := evalOK(t, src)
	if v.Kind != value.KindNumber || v.Number().Int64() != 7 {
		t.Errorf("chained var-aliasing: a[0] = %v, want Number(7)", v)
	}
}

func TestPlainVarDoesNotAlias(t *testing.T) {
	src := `
var a = [1, 2, 3];
var b = a;
b[0] = 99;
a[0];
`
	v := evalOK(t, src)
	if v.Kind != value.KindNumber || v.Number().Int64() != 1 {
		t.Errorf("var a = [...]; var b = a; b[0] = 99; a[0] = %v, want Number(1) (no aliasing without a `:=`-rooted source)", v)
	}
}

func TestInvalidSyntax(t *testing.T) {
	tests := []string{
		"var = 5;",
		"def (x) -> x;",
		"1 +;",
		"struct { }",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			parseErr(t, src)
		})
	}
}
