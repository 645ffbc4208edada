package stdlib

import (
	"encoding/hex"
	"testing"

	"rossa/internal/extern"
	"rossa/internal/rnumber"
	"rossa/internal/token"
	"rossa/internal/value"
)

func call(t *testing.T, reg *extern.Registry, lib, fn string, args ...value.Value) value.Value {
	t.Helper()
	cb, ok := reg.Lookup(lib, fn)
	if !ok {
		t.Fatalf("%s.%s not registered", lib, fn)
	}
	v, err := cb(args, token.Token{}, nil, nil)
	if err != nil {
		t.Fatalf("%s.%s(%v) error: %v", lib, fn, args, err)
	}
	return v
}

func callErr(t *testing.T, reg *extern.Registry, lib, fn string, args ...value.Value) error {
	t.Helper()
	cb, ok := reg.Lookup(lib, fn)
	if !ok {
		t.Fatalf("%s.%s not registered", lib, fn)
	}
	_, err := cb(args, token.Token{}, nil, nil)
	if err == nil {
		t.Fatalf("%s.%s(%v) succeeded, want error", lib, fn, args)
	}
	return err
}

func TestRegisterAllWiresEveryLibrary(t *testing.T) {
	reg := extern.New()
	RegisterAll(reg)

	want := map[string][]string{
		"db":        {"connect", "query", "exec", "close"},
		"net":       {"http_get", "http_post"},
		"ws":        {"dial", "send", "recv", "close"},
		"thread":    {"start", "join"},
		"crypto":    {"sha256", "hmac", "aes_encrypt", "aes_decrypt", "rand_bytes", "pbkdf2"},
		"uuid":      {"new", "parse"},
		"humanize":  {"bytes", "duration", "time"},
		"math":      {"sqrt", "floor", "ceil", "abs", "sin", "cos", "log", "pow"},
		"io":        {"read_file", "write_file", "exists"},
	}
	for lib, fns := range want {
		for _, fn := range fns {
			if _, ok := reg.Lookup(lib, fn); !ok {
				t.Errorf("%s.%s not registered by RegisterAll", lib, fn)
			}
		}
	}
}

func TestCryptoSHA256(t *testing.T) {
	reg := extern.New()
	RegisterCrypto(reg)
	v := call(t, reg, "crypto", "sha256", value.Str("hello"))
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got := v.Str(); got != want {
		t.Errorf("sha256(hello) = %s, want %s", got, want)
	}
}

func TestCryptoHMACDeterministic(t *testing.T) {
	reg := extern.New()
	RegisterCrypto(reg)
	a := call(t, reg, "crypto", "hmac", value.Str("msg"), value.Str("key"))
	b := call(t, reg, "crypto", "hmac", value.Str("msg"), value.Str("key"))
	if a.Str() != b.Str() {
		t.Errorf("hmac not deterministic: %s vs %s", a.Str(), b.Str())
	}
	c := call(t, reg, "crypto", "hmac", value.Str("msg"), value.Str("other-key"))
	if a.Str() == c.Str() {
		t.Error("hmac should differ across keys")
	}
}

func TestCryptoAESRoundTrip(t *testing.T) {
	reg := extern.New()
	RegisterCrypto(reg)
	key := call(t, reg, "crypto", "rand_bytes", value.Num(rnumber.Int(32)))
	ciphertext := call(t, reg, "crypto", "aes_encrypt", value.Str("top secret"), key)
	plaintext := call(t, reg, "crypto", "aes_decrypt", ciphertext, key)
	if got := plaintext.Str(); got != "top secret" {
		t.Errorf("round trip = %q, want %q", got, "top secret")
	}
}

func TestCryptoAESDecryptWrongKeyFails(t *testing.T) {
	reg := extern.New()
	RegisterCrypto(reg)
	key := call(t, reg, "crypto", "rand_bytes", value.Num(rnumber.Int(32)))
	other := call(t, reg, "crypto", "rand_bytes", value.Num(rnumber.Int(32)))
	ciphertext := call(t, reg, "crypto", "aes_encrypt", value.Str("top secret"), key)
	callErr(t, reg, "crypto", "aes_decrypt", ciphertext, other)
}

func TestCryptoRandBytesLength(t *testing.T) {
	reg := extern.New()
	RegisterCrypto(reg)
	v := call(t, reg, "crypto", "rand_bytes", value.Num(rnumber.Int(16)))
	raw, err := hex.DecodeString(v.Str())
	if err != nil {
		t.Fatalf("not hex: %v", err)
	}
	if len(raw) != 16 {
		t.Errorf("got %d bytes, want 16", len(raw))
	}
}

func TestCryptoPBKDF2Deterministic(t *testing.T) {
	reg := extern.New()
	RegisterCrypto(reg)
	a := call(t, reg, "crypto", "pbkdf2", value.Str("pw"), value.Str("salt"), value.Num(rnumber.Int(1000)), value.Num(rnumber.Int(32)))
	b := call(t, reg, "crypto", "pbkdf2", value.Str("pw"), value.Str("salt"), value.Num(rnumber.Int(1000)), value.Num(rnumber.Int(32)))
	if a.Str() != b.Str() {
		t.Errorf("pbkdf2 not deterministic: %s vs %s", a.Str(), b.Str())
	}
}

func TestUUIDNewThenParse(t *testing.T) {
	reg := extern.New()
	RegisterUUID(reg)
	id := call(t, reg, "uuid", "new")
	parsed := call(t, reg, "uuid", "parse", id)
	if parsed.Str() != id.Str() {
		t.Errorf("parse(new()) = %s, want %s", parsed.Str(), id.Str())
	}
}

func TestUUIDParseInvalid(t *testing.T) {
	reg := extern.New()
	RegisterUUID(reg)
	callErr(t, reg, "uuid", "parse", value.Str("not-a-uuid"))
}

func TestHumanizeBytes(t *testing.T) {
	reg := extern.New()
	RegisterHumanize(reg)
	v := call(t, reg, "humanize", "bytes", value.Num(rnumber.Int(1024)))
	if got := v.Str(); got != "1.0 kB" {
		t.Errorf("humanize_bytes(1024) = %q, want %q", got, "1.0 kB")
	}
}

func TestMathFunctions(t *testing.T) {
	reg := extern.New()
	RegisterMath(reg)
	tests := []struct {
		fn   string
		args []value.Value
		want float64
	}{
		{"sqrt", []value.Value{value.Num(rnumber.Int(16))}, 4},
		{"floor", []value.Value{value.Num(rnumber.Float(3.7))}, 3},
		{"ceil", []value.Value{value.Num(rnumber.Float(3.2))}, 4},
		{"abs", []value.Value{value.Num(rnumber.Int(-5))}, 5},
		{"pow", []value.Value{value.Num(rnumber.Int(2)), value.Num(rnumber.Int(10))}, 1024},
	}
	for _, tt := range tests {
		t.Run(tt.fn, func(t *testing.T) {
			v := call(t, reg, "math", tt.fn, tt.args...)
			if got := v.Number().Float64(); got != tt.want {
				t.Errorf("math_%s = %v, want %v", tt.fn, got, tt.want)
			}
		})
	}
}

func TestArgStringMissingArgument(t *testing.T) {
	reg := extern.New()
	RegisterCrypto(reg)
	callErr(t, reg, "crypto", "sha256")
}

func TestArgStringWrongKind(t *testing.T) {
	reg := extern.New()
	RegisterCrypto(reg)
	callErr(t, reg, "crypto", "sha256", value.Num(rnumber.Int(5)))
}
