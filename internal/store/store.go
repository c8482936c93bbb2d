// Package store is the on-disk weight store: downloaded model artifacts
// keyed by model identifier, tracked in a JSON manifest. The loader reads
// from it; nothing mutates an artifact after it is committed.
package store

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"advisord/internal/common/fsutil"
)

const manifestName = "manifest.json"

// Artifact is one committed entry in the store.
type Artifact struct {
	ModelID      string    `json:"model_id"`
	Path         string    `json:"path"`
	SizeBytes    int64     `json:"size_bytes"`
	Checksum     string    `json:"checksum,omitempty"`
	DownloadedAt time.Time `json:"downloaded_at"`
	LastUsed     time.Time `json:"last_used"`
}

type manifest struct {
	Version   string     `json:"version"`
	Artifacts []Artifact `json:"artifacts"`
}

// Store manages the artifact cache directory.
type Store struct {
	dir          string
	manifestPath string
	client       *http.Client

	mu       sync.Mutex
	manifest manifest
}

// Open prepares the cache directory (including the .partial subdirectory
// used by resumable downloads) and loads or creates the manifest.
func Open(dir string) (*Store, error) {
	abs, err := fsutil.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cache dir: %w", err)
	}
	if _, err := fsutil.EnsureDir(filepath.Join(abs, ".partial")); err != nil {
		return nil, fmt.Errorf("partial dir: %w", err)
	}
	s := &Store{
		dir:          abs,
		manifestPath: filepath.Join(abs, manifestName),
		// No timeout: artifacts are multi-gigabyte.
		client: &http.Client{Timeout: 0},
	}
	if err := s.loadManifest(); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir returns the absolute cache directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) loadManifest() error {
	b, err := os.ReadFile(s.manifestPath)
	if os.IsNotExist(err) {
		s.manifest = manifest{Version: "1"}
		return s.saveManifestLocked()
	}
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	var m manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("parse manifest: %w", err)
	}
	s.manifest = m
	return nil
}

func (s *Store) saveManifestLocked() error {
	b, err := json.MarshalIndent(s.manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(s.manifestPath, b, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Path returns the artifact path for a model id if it is present on disk.
func (s *Store) Path(modelID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.manifest.Artifacts {
		a := &s.manifest.Artifacts[i]
		if a.ModelID != modelID {
			continue
		}
		if !fsutil.PathExists(a.Path) {
			return "", false
		}
		a.LastUsed = time.Now()
		_ = s.saveManifestLocked()
		return a.Path, true
	}
	return "", false
}

// List returns a copy of the manifest entries.
func (s *Store) List() []Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Artifact, len(s.manifest.Artifacts))
	copy(out, s.manifest.Artifacts)
	return out
}

// Remove deletes an artifact and its manifest entry. Missing entries are
// not an error.
func (s *Store) Remove(modelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.manifest.Artifacts[:0]
	for _, a := range s.manifest.Artifacts {
		if a.ModelID == modelID {
			if err := os.Remove(a.Path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("remove artifact: %w", err)
			}
			continue
		}
		kept = append(kept, a)
	}
	s.manifest.Artifacts = kept
	return s.saveManifestLocked()
}

// commit records a newly downloaded artifact.
func (s *Store) commit(a Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.manifest.Artifacts {
		if s.manifest.Artifacts[i].ModelID == a.ModelID {
			s.manifest.Artifacts[i] = a
			return s.saveManifestLocked()
		}
	}
	s.manifest.Artifacts = append(s.manifest.Artifacts, a)
	return s.saveManifestLocked()
}
