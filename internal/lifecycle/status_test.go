package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStatusReflectsLifecycle(t *testing.T) {
	l := &fakeLoader{tokens: []string{"ok"}}
	m := newTestManager(t, l)

	s := m.Status()
	if s.Available || s.Loading || s.CurrentModel != "" || s.LoadsTotal != 0 {
		t.Fatalf("fresh manager status: %+v", s)
	}

	m.Load(context.Background(), "m", nil)
	s = m.Status()
	if !s.Available || s.CurrentModel != "m" || s.LoadsTotal != 1 || s.LastError != "" {
		t.Fatalf("post-load status: %+v", s)
	}

	m.Unload()
	s = m.Status()
	if s.Available || s.CurrentModel != "" {
		t.Fatalf("post-unload status: %+v", s)
	}
	// The load counter is cumulative, not tied to the current handle.
	if s.LoadsTotal != 1 {
		t.Fatalf("LoadsTotal = %d after unload, want 1", s.LoadsTotal)
	}
}

func TestStatusCapturesLoadError(t *testing.T) {
	l := &fakeLoader{loadErr: errors.New("weights missing")}
	m := newTestManager(t, l)
	m.Load(context.Background(), "m", nil)

	s := m.Status()
	if s.Available {
		t.Fatalf("manager available after failed load")
	}
	if s.LastError == "" {
		t.Fatalf("expected LastError to carry the load failure")
	}
}

func TestStatusDoesNotBlockDuringGeneration(t *testing.T) {
	l := &fakeLoader{tokens: []string{"a", "b", "c"}, tokenDelay: 30 * time.Millisecond}
	m := newTestManager(t, l)
	m.Load(context.Background(), "m", nil)

	done := make(chan string, 1)
	go func() { done <- m.Generate(context.Background(), helloRequest(0)) }()

	waitFor(t, time.Second, func() bool {
		start := time.Now()
		s := m.Status()
		if time.Since(start) > 50*time.Millisecond {
			t.Fatalf("Status blocked behind a generation")
		}
		return s.Available
	})
	if got := <-done; got != "abc" {
		t.Fatalf("Generate = %q, want abc", got)
	}
}
