package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandHomePassthrough(t *testing.T) {
	for _, p := range []string{"", "/abs/path", "rel/path"} {
		got, err := ExpandHome(p)
		if err != nil {
			t.Fatalf("ExpandHome(%q): %v", p, err)
		}
		if got != p {
			t.Fatalf("ExpandHome(%q) = %q, want unchanged", p, got)
		}
	}
}

func TestExpandHomeTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	got, err := ExpandHome("~/models")
	if err != nil {
		t.Fatalf("ExpandHome: %v", err)
	}
	if got != filepath.Join(home, "models") {
		t.Fatalf("ExpandHome(~/models) = %q", got)
	}
}

func TestEnsureDirCreates(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a", "b")
	abs, err := EnsureDir(target)
	if err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	fi, err := os.Stat(abs)
	if err != nil || !fi.IsDir() {
		t.Fatalf("expected directory at %q, err=%v", abs, err)
	}
}

func TestPathExists(t *testing.T) {
	dir := t.TempDir()
	if !PathExists(dir) {
		t.Fatalf("expected existing dir to be reported")
	}
	if PathExists(filepath.Join(dir, "missing")) {
		t.Fatalf("expected missing path to be reported absent")
	}
}
