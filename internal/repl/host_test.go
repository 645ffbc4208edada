package repl

import (
	"os"
	"path/filepath"
	"testing"

	"rossa/internal/value"
)

func TestRunReturnsLastStatementValue(t *testing.T) {
	h := NewHost(false)
	v, err := h.Run("var x = 1; var y = 2; x + y;", "<test>")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if v.Kind != value.KindNumber || v.Number().Int64() != 3 {
		t.Errorf("got %v, want Number(3)", v)
	}
}

func TestRunPersistsGlobalScopeAcrossCalls(t *testing.T) {
	h := NewHost(false)
	if _, err := h.Run("var counter = 0;", "<test>"); err != nil {
		t.Fatalf("first Run error: %v", err)
	}
	v, err := h.Run("counter = counter + 1; counter;", "<test>")
	if err != nil {
		t.Fatalf("second Run error: %v", err)
	}
	if got := v.Number().Int64(); got != 1 {
		t.Errorf("counter = %d, want 1", got)
	}
}

func TestRunPropagatesParseError(t *testing.T) {
	h := NewHost(false)
	if _, err := h.Run("var = ;", "<test>"); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestNoStdlibSkipsExtensionRegistration(t *testing.T) {
	h := NewHost(false)
	if _, ok := h.Registry.Lookup("math", "sqrt"); ok {
		t.Error("math.sqrt should not be registered when withStdlib is false")
	}
}

func TestWithStdlibRegistersExtensions(t *testing.T) {
	h := NewHost(true)
	if _, ok := h.Registry.Lookup("math", "sqrt"); !ok {
		t.Error("math.sqrt should be registered when withStdlib is true")
	}
}

func TestLoadModuleResolvesAgainstSearchPath(t *testing.T) {
	dir := t.TempDir()
	modPath := filepath.Join(dir, "greeting.ro")
	if err := os.WriteFile(modPath, []byte(`var greeting = "hi";`), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	h := NewHost(false, dir)
	v, err := h.Run(`load "greeting.ro"; greeting;`, "<test>")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if v.Kind != value.KindString || v.Str() != "hi" {
		t.Errorf("got %v, want String(hi)", v)
	}
}

func TestLoadModuleCachesCompiledInstruction(t *testing.T) {
	dir := t.TempDir()
	modPath := filepath.Join(dir, "once.ro")
	if err := os.WriteFile(modPath, []byte(`var n = 1;`), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	h := NewHost(false, dir)
	if _, err := h.Run(`load "once.ro";`, "<test>"); err != nil {
		t.Fatalf("first load error: %v", err)
	}
	resolved, _, err := h.resolve("once.ro")
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if _, err := h.Run(`load "once.ro";`, "<test>"); err != nil {
		t.Fatalf("second load error: %v", err)
	}
	if _, ok := h.modules[resolved]; !ok {
		t.Error("expected resolved module path to be cached")
	}
}

func TestRunFileReadsAndRuns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.ro")
	if err := os.WriteFile(path, []byte(`2 + 2;`), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	h := NewHost(false)
	v, err := h.RunFile(path)
	if err != nil {
		t.Fatalf("RunFile error: %v", err)
	}
	if got := v.Number().Int64(); got != 4 {
		t.Errorf("got %d, want 4", got)
	}
}

func TestRunFileMissingFile(t *testing.T) {
	h := NewHost(false)
	if _, err := h.RunFile(filepath.Join(t.TempDir(), "missing.ro")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
