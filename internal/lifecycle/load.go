package lifecycle

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"advisord/internal/catalog"
)

// Load replaces the current model with modelID. It is intended to run on a
// caller-owned goroutine: it blocks until the load resolves and reports the
// outcome only through state, never as a returned fault. If a load is
// already in progress the call is a no-op.
//
// Sequence: mark Loading; release the previous handle under the generation
// slot; run the Loader (slow, unlocked — the handle pointer is nil for that
// window); install the new handle under the generation slot; persist the
// model id. Any failure lands in StateFailed with the message captured.
func (m *Manager) Load(ctx context.Context, modelID string, progress func(string)) {
	m.mu.Lock()
	if m.loading {
		m.mu.Unlock()
		return
	}
	m.loading = true
	m.state = StateLoading
	m.current = modelID
	m.lastErr = ""
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.loading = false
		m.mu.Unlock()
	}()

	start := time.Now()
	report := func(msg string) {
		log.Info().Str("model", modelID).Msg(msg)
		if progress != nil {
			progress(msg)
		}
	}
	m.pub.Publish(Event{Name: "load_start", ModelID: modelID})

	mdl, ok := catalog.Find(m.catalog, modelID)
	if !ok {
		// Not in the catalog; let the loader decide whether a bare id is
		// resolvable (e.g. a direct repo path).
		mdl = catalog.Model{ID: modelID, Name: modelID}
	}
	log.Info().Str("model", modelID).Msg("loading " + mdl.Describe())

	// Release the previous handle first so its device memory is free
	// before the new weights arrive. Held generations finish first.
	release := m.acquireGenBlocking()
	m.mu.Lock()
	old := m.handle
	m.handle = nil
	m.mu.Unlock()
	if old != nil {
		report("unloading previous model")
		if err := old.Close(); err != nil {
			log.Warn().Err(err).Msg("close previous handle")
		}
	}
	release()

	h, err := m.loader.Load(ctx, mdl, report)
	if err != nil {
		m.mu.Lock()
		m.state = StateFailed
		m.current = modelID
		m.lastErr = err.Error()
		m.mu.Unlock()
		loadsTotal.WithLabelValues("failure").Inc()
		log.Error().Err(err).Str("model", modelID).Msg("model load failed")
		m.pub.Publish(Event{Name: "load_error", ModelID: modelID, Fields: map[string]any{"error": err.Error()}})
		report("load failed: " + err.Error())
		return
	}

	release = m.acquireGenBlocking()
	m.mu.Lock()
	m.handle = h
	m.state = StateReady
	m.current = modelID
	m.lastErr = ""
	m.loads++
	m.mu.Unlock()
	release()

	m.persist.Write(modelID)
	loadsTotal.WithLabelValues("success").Inc()
	m.pub.Publish(Event{Name: "load_ready", ModelID: modelID, Fields: map[string]any{"dur_ms": int(time.Since(start) / time.Millisecond)}})
	report("load complete")
}
