package lexer

import (
	"testing"

	"rossa/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func mustScan(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, err := New(src, "test.ro").Scan()
	if err != nil {
		t.Fatalf("Scan(%q) error: %v", src, err)
	}
	return toks
}

func TestScanKeywordsAndIdents(t *testing.T) {
	toks := mustScan(t, "if else foo struct")
	want := []token.Kind{token.KwIf, token.KwElse, token.Ident, token.KwStruct, token.EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScanNumbers(t *testing.T) {
	toks := mustScan(t, "42 3.5 0b101 0x1F")
	for i, want := range []int64{42, 0, 5, 31} {
		if !toks[i].HasNum {
			t.Fatalf("token %d missing numeric payload", i)
		}
		if i == 1 {
			continue // double, checked separately
		}
		if toks[i].Num.Int64() != want {
			t.Errorf("token %d = %v, want %d", i, toks[i].Num, want)
		}
	}
	if toks[1].Num.IsInt() {
		t.Error("3.5 should lex as a double")
	}
}

func TestScanString(t *testing.T) {
	toks := mustScan(t, `"hello\nworld"`)
	if toks[0].Kind != token.String {
		t.Fatalf("expected STRING, got %v", toks[0].Kind)
	}
	if toks[0].Text != "hello\nworld" {
		t.Errorf("got %q", toks[0].Text)
	}
}

func TestScanCharLiteral(t *testing.T) {
	toks := mustScan(t, "'a'")
	if !toks[0].HasNum || toks[0].Num.Int64() != int64('a') {
		t.Errorf("char literal 'a' should be Number 97, got %v", toks[0])
	}
}

func TestScanBacktickIdentifier(t *testing.T) {
	toks := mustScan(t, "`weird name!`")
	if toks[0].Kind != token.Ident || toks[0].Text != "weird name!" {
		t.Errorf("backtick identifier mis-scanned: %+v", toks[0])
	}
}

func TestScanLineComment(t *testing.T) {
	toks := mustScan(t, "1 # comment\n2")
	if len(toks) != 3 { // 1, 2, EOF
		t.Fatalf("comment should be skipped, got %d tokens: %v", len(toks), toks)
	}
}

func TestScanOperatorsMaximalMunch(t *testing.T) {
	toks := mustScan(t, "a === b !== c <= d >= e && f || g")
	ops := []string{}
	for _, tk := range toks {
		if tk.Kind == token.Op {
			ops = append(ops, tk.Text)
		}
	}
	want := []string{"===", "!==", "<=", ">=", "&&", "||"}
	if len(ops) != len(want) {
		t.Fatalf("got ops %v, want %v", ops, want)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("op %d = %q, want %q", i, ops[i], want[i])
		}
	}
}

func TestScanRangeOperators(t *testing.T) {
	toks := mustScan(t, "1..5 1<>5")
	var ops []string
	for _, tk := range toks {
		if tk.Kind == token.Op {
			ops = append(ops, tk.Text)
		}
	}
	if len(ops) != 2 || ops[0] != ".." || ops[1] != "<>" {
		t.Errorf("got range ops %v", ops)
	}
}

func TestUnterminatedStringIsLexError(t *testing.T) {
	_, err := New(`"unterminated`, "t.ro").Scan()
	if err == nil {
		t.Fatal("expected a lex error for an unterminated string")
	}
}
