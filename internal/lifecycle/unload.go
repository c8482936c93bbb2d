package lifecycle

import "github.com/rs/zerolog/log"

// Unload drops the current handle and transitions to Unloaded. It blocks
// until any in-flight generation releases the generation slot, so a handle
// is never torn down mid-inference. The persisted last-loaded-model record
// is kept for restart convenience.
func (m *Manager) Unload() {
	release := m.acquireGenBlocking()
	m.mu.Lock()
	old := m.handle
	modelID := m.current
	m.handle = nil
	m.state = StateUnloaded
	m.current = ""
	m.lastErr = ""
	m.mu.Unlock()
	if old != nil {
		if err := old.Close(); err != nil {
			log.Warn().Err(err).Msg("close handle")
		}
	}
	release()
	if old != nil {
		log.Info().Str("model", modelID).Msg("model unloaded")
		m.pub.Publish(Event{Name: "unload", ModelID: modelID})
	}
}
