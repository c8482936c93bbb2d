package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltinEntriesValid(t *testing.T) {
	models := Builtin()
	if len(models) == 0 {
		t.Fatalf("expected builtin catalog to be non-empty")
	}
	for _, m := range models {
		if err := Validate(m); err != nil {
			t.Fatalf("builtin model invalid: %v", err)
		}
	}
}

func TestDescribe(t *testing.T) {
	m := Model{ID: "qwen3-8b-q4", Name: "Qwen3 8B (Q4_K_M)", FileSizeMB: 5000, ContextWindow: 32768}
	got := m.Describe()
	if got != "Qwen3 8B (Q4_K_M) ~5000 MB ctx 32768" {
		t.Fatalf("Describe() = %q", got)
	}
	if got := (Model{ID: "local"}).Describe(); got != "local" {
		t.Fatalf("Describe() = %q", got)
	}
}

func TestFind(t *testing.T) {
	models := []Model{{ID: "a"}, {ID: "b"}}
	if _, ok := Find(models, "b"); !ok {
		t.Fatalf("expected to find b")
	}
	if _, ok := Find(models, "zzz"); ok {
		t.Fatalf("did not expect to find zzz")
	}
}

func TestMergeOverridesAndSorts(t *testing.T) {
	a := []Model{{ID: "m1", Name: "old"}, {ID: "m2"}}
	b := []Model{{ID: "m1", Name: "new"}}
	out := Merge(a, b)
	if len(out) != 2 {
		t.Fatalf("expected 2 models, got %d", len(out))
	}
	if out[0].ID != "m1" || out[0].Name != "new" {
		t.Fatalf("expected override, got %+v", out[0])
	}
	if out[1].ID != "m2" {
		t.Fatalf("expected sorted output, got %+v", out)
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"tiny.gguf", "notes.txt", "BIG.GGUF"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	models, err := ScanDir(dir)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 gguf entries, got %d: %+v", len(models), models)
	}
	if _, ok := Find(models, "tiny"); !ok {
		t.Fatalf("expected id without extension")
	}
}

func TestScanDirMissing(t *testing.T) {
	if _, err := ScanDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}
