package lifecycle

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// StreamGenerate runs a streaming generation. Each value received from the
// returned channel is the cumulative decoded text so far, so a consumer
// that only keeps the latest value still holds the full answer. The channel
// is closed when generation completes, fails, or the abandonment timeout
// elapses; if no model is ready the channel is returned already closed.
func (m *Manager) StreamGenerate(ctx context.Context, req Request) <-chan string {
	out := make(chan string)
	if !m.Available() {
		close(out)
		return out
	}
	go m.streamRun(ctx, req, out)
	return out
}

// streamRun is the consumer side of the stream. A dedicated producer
// goroutine feeds decoded increments into a bounded hand-off channel; the
// consumer accumulates and forwards cumulative snapshots until the producer
// finishes or the abandonment timeout fires. On abandonment the consumer
// stops yielding, cancels the producer's context, releases the generation
// slot, and a drainer empties the hand-off channel so the producer can exit
// on its own; the worker is detached, not killed.
func (m *Manager) streamRun(ctx context.Context, req Request, out chan<- string) {
	defer close(out)
	release, err := m.acquireGen(ctx)
	if err != nil {
		return
	}
	released := false
	releaseOnce := func() {
		if !released {
			released = true
			release()
		}
	}
	defer releaseOnce()

	h := m.currentHandle()
	if h == nil {
		// Unloaded while we waited for the slot.
		return
	}
	prompt, err := renderPrompt(req)
	if err != nil {
		log.Warn().Err(err).Msg("render prompt")
		generationsTotal.WithLabelValues("stream", "failure").Inc()
		return
	}

	_, modelID := m.StateSnapshot()
	m.pub.Publish(Event{Name: "generate_start", ModelID: modelID, Fields: map[string]any{"mode": "stream"}})

	prodCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	tokens := make(chan string, m.streamChanSize)
	done := make(chan error, 1)
	go func() {
		_, genErr := h.Generate(prodCtx, prompt, m.sampleParams(req), func(tok string) error {
			select {
			case tokens <- tok:
				return nil
			case <-prodCtx.Done():
				return prodCtx.Err()
			}
		})
		close(tokens)
		done <- genErr
	}()

	detach := func() {
		cancel()
		go func() {
			for range tokens {
			}
			<-done
		}()
	}

	var acc strings.Builder
	timer := time.NewTimer(m.streamAbandon)
	defer timer.Stop()
	for {
		select {
		case tok, ok := <-tokens:
			if !ok {
				genErr := <-done
				if genErr != nil && prodCtx.Err() == nil {
					log.Warn().Err(genErr).Msg("stream generation failed")
					generationsTotal.WithLabelValues("stream", "failure").Inc()
				} else {
					generationsTotal.WithLabelValues("stream", "success").Inc()
					m.pub.Publish(Event{Name: "generate_done", ModelID: modelID, Fields: map[string]any{"mode": "stream"}})
				}
				return
			}
			acc.WriteString(tok)
			select {
			case out <- acc.String():
			case <-timer.C:
				m.abandonStream(detach)
				return
			case <-ctx.Done():
				detach()
				return
			}
		case <-timer.C:
			m.abandonStream(detach)
			return
		case <-ctx.Done():
			detach()
			return
		}
	}
}

func (m *Manager) abandonStream(detach func()) {
	streamAbandonsTotal.Inc()
	m.mu.RLock()
	modelID := m.current
	m.mu.RUnlock()
	log.Warn().Str("model", modelID).Dur("timeout", m.streamAbandon).Msg("stream abandoned")
	m.pub.Publish(Event{Name: "stream_abandoned", ModelID: modelID})
	detach()
}
