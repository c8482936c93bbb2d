package lifecycle

import (
	"time"

	"advisord/internal/catalog"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultMaxNewTokens   = 1024
	defaultStreamAbandon  = 120 * time.Second
	defaultStreamChanSize = 64
)

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	Loader  Loader
	Catalog []catalog.Model
	// PersistPath is the durable last-loaded-model record; empty disables
	// persistence.
	PersistPath string
	Publisher   EventPublisher
	// MaxNewTokens bounds generation output length.
	MaxNewTokens int
	// StreamAbandonTimeout bounds how long a streaming consumer runs
	// before the session is considered abandoned.
	StreamAbandonTimeout time.Duration
	// StreamChannelDepth sizes the producer/consumer hand-off channel.
	StreamChannelDepth int
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		state:   StateUnloaded,
		loader:  cfg.Loader,
		catalog: cfg.Catalog,
		persist: NewRecord(cfg.PersistPath),
		pub:     cfg.Publisher,
		gen:     make(chan struct{}, 1),
		started: time.Now(),
	}
	if m.pub == nil {
		m.pub = noopPublisher{}
	}
	if cfg.MaxNewTokens > 0 {
		m.maxNewTokens = cfg.MaxNewTokens
	} else {
		m.maxNewTokens = defaultMaxNewTokens
	}
	if cfg.StreamAbandonTimeout > 0 {
		m.streamAbandon = cfg.StreamAbandonTimeout
	} else {
		m.streamAbandon = defaultStreamAbandon
	}
	if cfg.StreamChannelDepth > 0 {
		m.streamChanSize = cfg.StreamChannelDepth
	} else {
		m.streamChanSize = defaultStreamChanSize
	}
	return m
}
