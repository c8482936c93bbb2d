package lifecycle

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRecordRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "last_model.json")
	r := NewRecord(path)
	r.Write("qwen3-8b-q4")
	if got := NewRecord(path).Read(); got != "qwen3-8b-q4" {
		t.Fatalf("Read() = %q, want qwen3-8b-q4", got)
	}
}

func TestRecordMissingReadsAsAbsent(t *testing.T) {
	r := NewRecord(filepath.Join(t.TempDir(), "nope.json"))
	if got := r.Read(); got != "" {
		t.Fatalf("Read() = %q, want empty", got)
	}
}

func TestRecordCorruptReadsAsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_model.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := NewRecord(path).Read(); got != "" {
		t.Fatalf("Read() = %q, want empty for corrupt record", got)
	}
}

func TestRecordOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_model.json")
	r := NewRecord(path)
	r.Write("a")
	r.Write("b")
	if got := r.Read(); got != "b" {
		t.Fatalf("Read() = %q, want b", got)
	}
}

func TestRecordEmptyPathDisabled(t *testing.T) {
	r := NewRecord("")
	r.Write("ignored")
	if got := r.Read(); got != "" {
		t.Fatalf("Read() = %q, want empty with persistence disabled", got)
	}
}
