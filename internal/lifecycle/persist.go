package lifecycle

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// persistRecord is the on-disk layout of the last-loaded-model record.
type persistRecord struct {
	ModelID string `json:"model_id"`
}

// Record durably remembers the last model identifier that completed a
// successful load. A missing or corrupt file reads as absence; writes are
// best-effort and never fail a load.
type Record struct {
	mu   sync.Mutex
	path string
}

// NewRecord wraps a record file path. An empty path disables persistence.
func NewRecord(path string) *Record {
	return &Record{path: path}
}

// Read returns the persisted model id, or "" when the record is missing or
// unreadable.
func (r *Record) Read() string {
	if r.path == "" {
		return ""
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b, err := os.ReadFile(r.path)
	if err != nil {
		return ""
	}
	var rec persistRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		// Corruption is treated as absence.
		return ""
	}
	return rec.ModelID
}

// Write persists the model id. Failures are logged and otherwise ignored.
func (r *Record) Write(modelID string) {
	if r.path == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		log.Warn().Err(err).Str("path", r.path).Msg("persist record dir")
		return
	}
	b, err := json.Marshal(persistRecord{ModelID: modelID})
	if err != nil {
		log.Warn().Err(err).Msg("persist record marshal")
		return
	}
	if err := os.WriteFile(r.path, b, 0o644); err != nil {
		log.Warn().Err(err).Str("path", r.path).Msg("persist record write")
	}
}
