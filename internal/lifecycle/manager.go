package lifecycle

import (
	"context"
	"sync"
	"time"

	"advisord/internal/catalog"
)

// Manager owns the current model handle and serializes the operations that
// touch it. One instance is shared by the whole application and is safe for
// concurrent use from any goroutine.
type Manager struct {
	// mu guards only the small state fields and the handle pointer. It is
	// never held across I/O or inference.
	mu      sync.RWMutex
	state   State
	current string // model id for Loading/Ready/Failed
	lastErr string
	handle  Handle
	loading bool
	loads   uint64

	// gen is the generation-exclusion slot: whoever holds the single
	// token may use or swap the handle.
	gen chan struct{}

	loader  Loader
	catalog []catalog.Model
	persist *Record
	pub     EventPublisher

	maxNewTokens   int
	streamAbandon  time.Duration
	streamChanSize int
	started        time.Time
}

// New constructs a Manager with package defaults.
func New(loader Loader, cat []catalog.Model, persistPath string) *Manager {
	return NewWithConfig(ManagerConfig{Loader: loader, Catalog: cat, PersistPath: persistPath})
}

// Available reports whether a model is loaded and ready for inference.
func (m *Manager) Available() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StateReady && m.handle != nil
}

// Models returns a copy of the catalog.
func (m *Manager) Models() []catalog.Model {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]catalog.Model, len(m.catalog))
	copy(out, m.catalog)
	return out
}

// LastPersistedModel returns the model id saved by the last successful
// load, or "" if none is recorded.
func (m *Manager) LastPersistedModel() string {
	return m.persist.Read()
}

// acquireGen takes the generation slot, honoring context cancellation.
// The returned release func must be called exactly once.
func (m *Manager) acquireGen(ctx context.Context) (func(), error) {
	select {
	case m.gen <- struct{}{}:
		return func() { <-m.gen }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// acquireGenBlocking takes the generation slot unconditionally.
func (m *Manager) acquireGenBlocking() func() {
	m.gen <- struct{}{}
	return func() { <-m.gen }
}

// currentHandle reads the handle pointer under the state lock. Callers must
// hold the generation slot for the handle to remain valid.
func (m *Manager) currentHandle() Handle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.handle
}
