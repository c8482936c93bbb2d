package lifecycle

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Generate runs a blocking generation and returns the trimmed completion.
// It fails fast with "" when no model is ready, and converts engine errors
// to "" without touching lifecycle state, so callers may simply retry.
// The generation slot is held for the entire call: no unload or reload can
// invalidate the handle mid-generation, and no second generation runs
// concurrently.
func (m *Manager) Generate(ctx context.Context, req Request) string {
	if !m.Available() {
		return ""
	}
	release, err := m.acquireGen(ctx)
	if err != nil {
		return ""
	}
	defer release()

	h := m.currentHandle()
	if h == nil {
		// Unloaded while we waited for the slot.
		return ""
	}
	prompt, err := renderPrompt(req)
	if err != nil {
		log.Warn().Err(err).Msg("render prompt")
		generationsTotal.WithLabelValues("blocking", "failure").Inc()
		return ""
	}
	_, modelID := m.StateSnapshot()
	m.pub.Publish(Event{Name: "generate_start", ModelID: modelID, Fields: map[string]any{"mode": "blocking"}})
	start := time.Now()
	out, err := h.Generate(ctx, prompt, m.sampleParams(req), nil)
	if err != nil {
		log.Warn().Err(err).Msg("generation failed")
		generationsTotal.WithLabelValues("blocking", "failure").Inc()
		return ""
	}
	generationsTotal.WithLabelValues("blocking", "success").Inc()
	m.pub.Publish(Event{Name: "generate_done", ModelID: modelID, Fields: map[string]any{"mode": "blocking", "dur_ms": int(time.Since(start) / time.Millisecond)}})
	return strings.TrimSpace(out)
}

func (m *Manager) sampleParams(req Request) SampleParams {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = m.maxNewTokens
	}
	return SampleParams{Temperature: req.Temperature, MaxTokens: maxTokens}
}
