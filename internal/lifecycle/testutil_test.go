package lifecycle

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"advisord/internal/catalog"
)

// fakeHandle is a lightweight in-memory model handle for tests. It emits a
// fixed token sequence, so temperature 0 behavior is trivially
// deterministic, and records any use after Close.
type fakeHandle struct {
	id         string
	tokens     []string
	tokenDelay time.Duration
	genErr     error

	closed         atomic.Bool
	usedAfterClose atomic.Bool

	mu         sync.Mutex
	lastPrompt string
	lastParams SampleParams
}

func (h *fakeHandle) Generate(ctx context.Context, prompt string, params SampleParams, onToken func(string) error) (string, error) {
	if h.closed.Load() {
		h.usedAfterClose.Store(true)
	}
	h.mu.Lock()
	h.lastPrompt = prompt
	h.lastParams = params
	h.mu.Unlock()
	if h.genErr != nil {
		return "", h.genErr
	}
	var b strings.Builder
	for _, tok := range h.tokens {
		if h.closed.Load() {
			h.usedAfterClose.Store(true)
		}
		if h.tokenDelay > 0 {
			select {
			case <-time.After(h.tokenDelay):
			case <-ctx.Done():
				return b.String(), ctx.Err()
			}
		} else if err := ctx.Err(); err != nil {
			return b.String(), err
		}
		if onToken != nil {
			if err := onToken(tok); err != nil {
				return b.String(), err
			}
		}
		b.WriteString(tok)
	}
	return b.String(), nil
}

func (h *fakeHandle) Close() error {
	h.closed.Store(true)
	return nil
}

// fakeLoader counts invocations and hands out fakeHandles.
type fakeLoader struct {
	mu       sync.Mutex
	calls    int
	seen     []string
	handles  []*fakeHandle
	loadErr  error
	delay    time.Duration
	tokens     []string
	tokenDelay time.Duration
	genErr     error
}

func (l *fakeLoader) Load(ctx context.Context, mdl catalog.Model, progress func(string)) (Handle, error) {
	l.mu.Lock()
	l.calls++
	l.seen = append(l.seen, mdl.ID)
	l.mu.Unlock()
	if progress != nil {
		progress("loading weights")
	}
	if l.delay > 0 {
		select {
		case <-time.After(l.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if l.loadErr != nil {
		return nil, l.loadErr
	}
	h := &fakeHandle{id: mdl.ID, tokens: l.tokens, tokenDelay: l.tokenDelay, genErr: l.genErr}
	l.mu.Lock()
	l.handles = append(l.handles, h)
	l.mu.Unlock()
	return h, nil
}

func (l *fakeLoader) loadCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func (l *fakeLoader) allHandles() []*fakeHandle {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*fakeHandle, len(l.handles))
	copy(out, l.handles)
	return out
}

func newTestManager(t *testing.T, l *fakeLoader, opts ...func(*ManagerConfig)) *Manager {
	t.Helper()
	cfg := ManagerConfig{Loader: l}
	for _, o := range opts {
		o(&cfg)
	}
	return NewWithConfig(cfg)
}

func helloRequest(temperature float64) Request {
	return UserRequest("", "hello", temperature)
}

// waitFor polls cond until it returns true or the deadline expires.
func waitFor(t *testing.T, d time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", d)
}
