package store

import (
	"fmt"
	"strings"

	parser "github.com/gpustack/gguf-parser-go"
)

// ArtifactInfo summarizes a GGUF artifact's embedded metadata.
type ArtifactInfo struct {
	Architecture string `json:"architecture"`
	Quantization string `json:"quantization"`
	Parameters   string `json:"parameters"`
	SizeBytes    int64  `json:"size_bytes"`
}

// Inspect parses the GGUF header of a cached artifact. A parse failure
// means the artifact is corrupt or not a GGUF file.
func (s *Store) Inspect(modelID string) (ArtifactInfo, error) {
	p, ok := s.Path(modelID)
	if !ok {
		return ArtifactInfo{}, fmt.Errorf("artifact not cached: %s", modelID)
	}
	gf, err := parser.ParseGGUFFile(p)
	if err != nil {
		return ArtifactInfo{}, fmt.Errorf("corrupt artifact %s: %w", modelID, err)
	}
	md := gf.Metadata()
	return ArtifactInfo{
		Architecture: strings.TrimSpace(md.Architecture),
		Quantization: strings.TrimSpace(md.FileType.String()),
		Parameters:   strings.TrimSpace(md.Parameters.String()),
		SizeBytes:    int64(md.Size),
	}, nil
}
