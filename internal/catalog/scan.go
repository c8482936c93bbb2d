package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"advisord/internal/common/fsutil"
)

// ScanDir scans a directory for *.gguf files and builds catalog entries from
// filenames. ID is the filename without extension; Filename is set so the
// weight store treats the artifact as already present.
func ScanDir(dir string) ([]Model, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []Model
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".gguf") {
			continue
		}
		id := strings.TrimSuffix(name, filepath.Ext(name))
		models = append(models, Model{ID: id, Name: id, Filename: name})
	}
	return models, nil
}
