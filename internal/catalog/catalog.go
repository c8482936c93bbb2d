package catalog

import (
	"fmt"
	"sort"
)

// Model describes one entry in the model catalog: where its weights live
// upstream and what the local artifact is called.
type Model struct {
	// Stable identifier used by the API and the weight store.
	ID string `json:"id"`
	// Human-friendly name.
	Name string `json:"name"`
	// Hugging Face repository path, e.g. "Qwen/Qwen3-8B-GGUF".
	Repo string `json:"repo,omitempty"`
	// GGUF filename inside the repository.
	Filename string `json:"filename,omitempty"`
	// Quantization level or variant string.
	Quant string `json:"quant,omitempty"`
	// Model family (e.g. qwen).
	Family string `json:"family,omitempty"`
	// Max context tokens.
	ContextWindow int `json:"context_window,omitempty"`
	// Approximate download size in MB.
	FileSizeMB int `json:"file_size_mb,omitempty"`
}

// Builtin returns the supported-model catalog. These are the models the
// dashboard offers out of the box; anything else must come from a local
// artifact scan.
func Builtin() []Model {
	return []Model{
		{
			ID:            "qwen3-4b-q4",
			Name:          "Qwen3 4B (Q4_K_M)",
			Repo:          "Qwen/Qwen3-4B-GGUF",
			Filename:      "Qwen3-4B-Q4_K_M.gguf",
			Quant:         "Q4_K_M",
			Family:        "qwen3",
			ContextWindow: 32768,
			FileSizeMB:    2500,
		},
		{
			ID:            "qwen3-8b-q4",
			Name:          "Qwen3 8B (Q4_K_M)",
			Repo:          "Qwen/Qwen3-8B-GGUF",
			Filename:      "Qwen3-8B-Q4_K_M.gguf",
			Quant:         "Q4_K_M",
			Family:        "qwen3",
			ContextWindow: 32768,
			FileSizeMB:    5000,
		},
		{
			ID:            "qwen3-14b-q4",
			Name:          "Qwen3 14B (Q4_K_M)",
			Repo:          "Qwen/Qwen3-14B-GGUF",
			Filename:      "Qwen3-14B-Q4_K_M.gguf",
			Quant:         "Q4_K_M",
			Family:        "qwen3",
			ContextWindow: 32768,
			FileSizeMB:    9000,
		},
		{
			ID:            "qwen3-32b-q4",
			Name:          "Qwen3 32B (Q4_K_M)",
			Repo:          "Qwen/Qwen3-32B-GGUF",
			Filename:      "Qwen3-32B-Q4_K_M.gguf",
			Quant:         "Q4_K_M",
			Family:        "qwen3",
			ContextWindow: 32768,
			FileSizeMB:    20000,
		},
	}
}

// Describe renders a one-line human-readable summary for logs and CLIs.
func (m Model) Describe() string {
	name := m.Name
	if name == "" {
		name = m.ID
	}
	desc := name
	if m.FileSizeMB > 0 {
		desc += fmt.Sprintf(" ~%d MB", m.FileSizeMB)
	}
	if m.ContextWindow > 0 {
		desc += fmt.Sprintf(" ctx %d", m.ContextWindow)
	}
	return desc
}

// Find looks up a model by id.
func Find(models []Model, id string) (Model, bool) {
	for _, m := range models {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}

// Merge combines catalogs, with later entries overriding earlier ones by id.
// The result is sorted by id for stable listings.
func Merge(catalogs ...[]Model) []Model {
	byID := map[string]Model{}
	for _, c := range catalogs {
		for _, m := range c {
			byID[m.ID] = m
		}
	}
	out := make([]Model, 0, len(byID))
	for _, m := range byID {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Validate checks a model entry is usable by the loader.
func Validate(m Model) error {
	if m.ID == "" {
		return fmt.Errorf("model id is empty")
	}
	if m.Repo == "" && m.Filename == "" {
		return fmt.Errorf("model %q has neither repo nor filename", m.ID)
	}
	return nil
}
