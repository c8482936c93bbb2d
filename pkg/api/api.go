// Package api holds the JSON request and response shapes of the advisord
// HTTP surface. It has no dependencies on the server internals so external
// clients can import it directly.
package api

// Model describes one entry of the model catalog.
type Model struct {
	// Stable identifier used by POST /load.
	// example: qwen3-8b-q4
	ID string `json:"id" example:"qwen3-8b-q4"`
	// Human-friendly name.
	// example: Qwen3 8B (Q4)
	Name string `json:"name" example:"Qwen3 8B (Q4)"`
	// Hugging Face repository the weights come from.
	// example: Qwen/Qwen3-8B-GGUF
	Repo string `json:"repo,omitempty" example:"Qwen/Qwen3-8B-GGUF"`
	// Quantization variant.
	// example: Q4_K_M
	Quant string `json:"quant,omitempty" example:"Q4_K_M"`
	// Model family; decides the prompt template.
	// example: qwen
	Family string `json:"family,omitempty" example:"qwen"`
	// Context window in tokens.
	// example: 32768
	ContextWindow int `json:"context_window,omitempty" example:"32768"`
	// Approximate weight file size in MB.
	// example: 5030
	FileSizeMB int `json:"file_size_mb,omitempty" example:"5030"`
	// Whether the weights are already present in the local store.
	// example: true
	Cached bool `json:"cached" example:"true"`
}

// ModelsResponse wraps the catalog returned by GET /models.
type ModelsResponse struct {
	Models []Model `json:"models"`
}

// LoadRequest asks the server to load a model.
type LoadRequest struct {
	// Catalog id or any Hugging Face repo id.
	// example: qwen3-8b-q4
	ModelID string `json:"model_id" example:"qwen3-8b-q4"`
}

// LoadAccepted acknowledges that a load was started in the background.
// Progress is observable through GET /status.
type LoadAccepted struct {
	// Server-side identifier for this load attempt.
	// example: 8f14e45f-ea4c-41a4-9f0a-0b04c9d6a1d2
	OpID string `json:"op_id" example:"8f14e45f-ea4c-41a4-9f0a-0b04c9d6a1d2"`
	// example: qwen3-8b-q4
	ModelID string `json:"model_id" example:"qwen3-8b-q4"`
	// example: loading
	Status string `json:"status" example:"loading"`
}

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	// One of system, user or assistant.
	// example: user
	Role string `json:"role" example:"user"`
	// example: Should I rebalance toward bonds?
	Content string `json:"content" example:"Should I rebalance toward bonds?"`
}

// GenerateRequest is the payload of POST /generate and
// POST /generate/stream. Either Prompt or Messages must be set; Messages
// wins when both are present.
type GenerateRequest struct {
	// Single-turn user prompt.
	// example: Summarize today's market movement.
	Prompt string `json:"prompt,omitempty" example:"Summarize today's market movement."`
	// Optional system prompt prepended to the conversation.
	System string `json:"system,omitempty"`
	// Multi-turn conversation; overrides Prompt.
	Messages []ChatMessage `json:"messages,omitempty"`
	// Sampling temperature; 0 selects greedy decoding.
	// example: 0.3
	Temperature float64 `json:"temperature,omitempty" example:"0.3"`
	// Maximum new tokens; 0 uses the server default.
	// example: 1024
	MaxTokens int `json:"max_tokens,omitempty" example:"1024"`
}

// GenerateResponse is the blocking-mode result.
type GenerateResponse struct {
	// Full decoded completion.
	Content string `json:"content"`
	// Model that produced it.
	// example: qwen3-8b-q4
	Model string `json:"model" example:"qwen3-8b-q4"`
	// Wall-clock generation time.
	// example: 5231
	DurationMs int64 `json:"duration_ms" example:"5231"`
}

// StreamChunk is one NDJSON line of POST /generate/stream. Content is
// cumulative: every line carries the full text decoded so far, and the last
// line sets Done.
type StreamChunk struct {
	Content string `json:"content"`
	Done    bool   `json:"done,omitempty"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Lifecycle state: unloaded, loading, ready or failed.
	// example: ready
	State string `json:"state" example:"ready"`
	// True when a model is ready to generate.
	// example: true
	Available bool `json:"available" example:"true"`
	// True while a load is in progress.
	Loading bool `json:"loading"`
	// Id of the ready (or loading) model, if any.
	// example: qwen3-8b-q4
	CurrentModel string `json:"current_model,omitempty" example:"qwen3-8b-q4"`
	// Message of the last failed load, cleared by the next success.
	LastError string `json:"last_error,omitempty"`
	// Device memory telemetry in MB; zero when unavailable.
	// example: 6144
	DeviceMemUsedMB int `json:"device_mem_used_mb" example:"6144"`
	// example: 16384
	DeviceMemTotalMB int `json:"device_mem_total_mb" example:"16384"`
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Total successful loads since start.
	// example: 3
	LoadsTotal uint64 `json:"loads_total" example:"3"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
	// Whether this binary carries real inference support.
	// example: true
	EngineBuilt bool `json:"engine_built" example:"true"`
}

// Artifact describes one cached weight file, returned by GET /artifacts.
type Artifact struct {
	// example: qwen3-8b-q4
	ModelID string `json:"model_id" example:"qwen3-8b-q4"`
	// example: /home/user/.cache/advisord/qwen3-8b-q4.gguf
	Path string `json:"path" example:"/home/user/.cache/advisord/qwen3-8b-q4.gguf"`
	// example: 5274099712
	SizeBytes int64 `json:"size_bytes" example:"5274099712"`
	// Tensor layout reported by the GGUF header, when readable.
	// example: qwen3
	Architecture string `json:"architecture,omitempty" example:"qwen3"`
	// example: Q4_K_M
	Quantization string `json:"quantization,omitempty" example:"Q4_K_M"`
	// Unix seconds of the last load that used this artifact.
	// example: 1700000000
	LastUsedUnix int64 `json:"last_used_unix,omitempty" example:"1700000000"`
}

// ArtifactsResponse wraps GET /artifacts.
type ArtifactsResponse struct {
	Artifacts []Artifact `json:"artifacts"`
	// Sum of SizeBytes over all artifacts.
	// example: 10548199424
	TotalBytes int64 `json:"total_bytes" example:"10548199424"`
}

// ErrorResponse is the consistent JSON error payload.
type ErrorResponse struct {
	// example: no model loaded
	Error string `json:"error" example:"no model loaded"`
	// example: 409
	Code int `json:"code" example:"409"`
}
