package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and will be replaced by defaults in cmd.
type Config struct {
	Addr                 string   `json:"addr" yaml:"addr" toml:"addr"`
	CacheDir             string   `json:"cache_dir" yaml:"cache_dir" toml:"cache_dir"`
	PersistFile          string   `json:"persist_file" yaml:"persist_file" toml:"persist_file"`
	DefaultModel         string   `json:"default_model" yaml:"default_model" toml:"default_model"`
	LogLevel             string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	MaxNewTokens         int      `json:"max_new_tokens" yaml:"max_new_tokens" toml:"max_new_tokens"`
	StreamAbandonSeconds int      `json:"stream_abandon_seconds" yaml:"stream_abandon_seconds" toml:"stream_abandon_seconds"`
	LlamaCtx             int      `json:"llama_ctx" yaml:"llama_ctx" toml:"llama_ctx"`
	LlamaThreads         int      `json:"llama_threads" yaml:"llama_threads" toml:"llama_threads"`
	CORSEnabled          bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins          []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
