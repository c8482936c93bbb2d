package lifecycle

import (
	"context"

	"advisord/internal/catalog"
)

// State represents the lifecycle state of the manager.
type State string

const (
	StateUnloaded State = "unloaded"
	StateLoading  State = "loading"
	StateReady    State = "ready"
	StateFailed   State = "failed"
)

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is an immutable generation request: ordered turns plus sampling
// parameters. Temperature 0 selects greedy decoding.
type Request struct {
	Messages    []Message
	Temperature float64
	// MaxTokens caps new tokens; 0 uses the manager default.
	MaxTokens int
}

// SampleParams are the decoded sampling settings handed to a Handle.
type SampleParams struct {
	Temperature float64
	MaxTokens   int
}

// Handle owns the tokenizer and weights of exactly one loaded model. It is
// exclusively owned by the Manager and only used while the generation slot
// is held. Close releases the weights and any device memory.
type Handle interface {
	// Generate runs inference on a rendered prompt. When onToken is
	// non-nil it is invoked with each decoded increment; the returned
	// string is always the full completion. Implementations must return
	// promptly when ctx is canceled.
	Generate(ctx context.Context, prompt string, params SampleParams, onToken func(string) error) (string, error)
	Close() error
}

// Loader acquires a Handle for a catalog entry. Implementations do the slow
// work (download, weight load, device placement) and may report
// human-readable milestones through progress; the callback is advisory and
// may be nil.
type Loader interface {
	Load(ctx context.Context, mdl catalog.Model, progress func(string)) (Handle, error)
}

// StatusSnapshot is a read-only copy of the manager state, safe to hand to
// any caller.
type StatusSnapshot struct {
	Available        bool
	Loading          bool
	CurrentModel     string
	LastError        string
	DeviceMemUsedMB  int
	DeviceMemTotalMB int
	UptimeSeconds    int64
	LoadsTotal       uint64
}
