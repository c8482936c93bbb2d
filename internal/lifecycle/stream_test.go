package lifecycle

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestStreamYieldsCumulativeSnapshots(t *testing.T) {
	l := &fakeLoader{tokens: []string{"He", "llo", " wor", "ld"}}
	m := newTestManager(t, l)
	m.Load(context.Background(), "m", nil)

	var snaps []string
	for s := range m.StreamGenerate(context.Background(), helloRequest(0)) {
		snaps = append(snaps, s)
	}
	if len(snaps) != 4 {
		t.Fatalf("expected 4 snapshots, got %d: %v", len(snaps), snaps)
	}
	for i := 1; i < len(snaps); i++ {
		if len(snaps[i]) < len(snaps[i-1]) || !strings.HasPrefix(snaps[i], snaps[i-1]) {
			t.Fatalf("snapshots not cumulative: %q then %q", snaps[i-1], snaps[i])
		}
	}
	// Determinism: the final snapshot matches blocking mode at temperature 0.
	blocking := m.Generate(context.Background(), helloRequest(0))
	if snaps[len(snaps)-1] != blocking {
		t.Fatalf("final snapshot %q != blocking result %q", snaps[len(snaps)-1], blocking)
	}
}

func TestStreamUnavailableClosedImmediately(t *testing.T) {
	m := newTestManager(t, &fakeLoader{})
	start := time.Now()
	count := 0
	for range m.StreamGenerate(context.Background(), helloRequest(0)) {
		count++
	}
	if count != 0 {
		t.Fatalf("expected no snapshots, got %d", count)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("stream blocked for %v while unavailable", elapsed)
	}
}

func TestStreamEngineErrorYieldsNothing(t *testing.T) {
	l := &fakeLoader{genErr: errors.New("engine fault")}
	m := newTestManager(t, l)
	m.Load(context.Background(), "m", nil)

	count := 0
	for range m.StreamGenerate(context.Background(), helloRequest(0)) {
		count++
	}
	if count != 0 {
		t.Fatalf("expected empty stream on engine error, got %d snapshots", count)
	}
	if !m.Available() {
		t.Fatalf("engine error must not change lifecycle state")
	}
}

func TestUnloadBlocksUntilStreamCompletes(t *testing.T) {
	l := &fakeLoader{tokens: []string{"a", "b", "c", "d", "e"}, tokenDelay: 20 * time.Millisecond}
	m := newTestManager(t, l)
	m.Load(context.Background(), "m", nil)

	final := make(chan string, 1)
	started := make(chan struct{})
	go func() {
		var last string
		first := true
		for s := range m.StreamGenerate(context.Background(), helloRequest(0)) {
			if first {
				close(started)
				first = false
			}
			last = s
		}
		final <- last
	}()

	<-started
	unloadStart := time.Now()
	m.Unload()
	blocked := time.Since(unloadStart)

	// The stream holds the generation slot to the end, so the unload has
	// to wait out most of the remaining tokens.
	if blocked < 40*time.Millisecond {
		t.Fatalf("unload returned after %v; expected it to block behind the stream", blocked)
	}
	if state, _ := m.StateSnapshot(); state != StateUnloaded {
		t.Fatalf("expected Unloaded after stream finished")
	}
	select {
	case got := <-final:
		if got != "abcde" {
			t.Fatalf("stream was cut short: %q", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("stream never completed")
	}
}

func TestStreamAbandonTimeoutReleasesSlot(t *testing.T) {
	l := &fakeLoader{tokens: []string{"t", "t", "t", "t", "t", "t", "t", "t", "t", "t"}, tokenDelay: 30 * time.Millisecond}
	m := newTestManager(t, l, func(c *ManagerConfig) {
		c.StreamAbandonTimeout = 50 * time.Millisecond
	})
	m.Load(context.Background(), "m", nil)

	start := time.Now()
	count := 0
	for range m.StreamGenerate(context.Background(), helloRequest(0)) {
		count++
	}
	elapsed := time.Since(start)
	if count >= 10 {
		t.Fatalf("expected abandoned stream to stop early, got all %d snapshots", count)
	}
	if elapsed > 200*time.Millisecond {
		t.Fatalf("abandoned stream closed after %v, want ~50ms", elapsed)
	}

	// The consumer released the generation slot on the timeout path, so
	// the next operation must not deadlock behind the detached producer.
	done := make(chan struct{})
	go func() {
		m.Unload()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("unload deadlocked after stream abandonment")
	}
}

func TestStreamContextCancelStops(t *testing.T) {
	l := &fakeLoader{tokens: []string{"a", "b", "c", "d", "e"}, tokenDelay: 20 * time.Millisecond}
	m := newTestManager(t, l)
	m.Load(context.Background(), "m", nil)

	ctx, cancel := context.WithCancel(context.Background())
	ch := m.StreamGenerate(ctx, helloRequest(0))
	<-ch
	cancel()
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("stream did not close after cancellation")
		}
	}
}
