//go:build llama

package llama

import (
	"context"
	"errors"
	"fmt"

	gollama "github.com/go-skynet/go-llama.cpp"

	"advisord/internal/catalog"
	"advisord/internal/lifecycle"
	"advisord/internal/store"
)

// built indicates this binary was compiled with real llama support.
const built = true

// Loader resolves weights through the artifact store and opens them with
// go-llama.cpp. One Loader is shared by all loads; each Load returns an
// independent handle owning its own model instance.
type Loader struct {
	store   *store.Store
	ctxSize int
	threads int
}

func NewLoader(st *store.Store, ctxSize, threads int) *Loader {
	return &Loader{store: st, ctxSize: ctxSize, threads: threads}
}

func (l *Loader) Load(ctx context.Context, mdl catalog.Model, progress func(string)) (lifecycle.Handle, error) {
	report := func(msg string) {
		if progress != nil {
			progress(msg)
		}
	}

	report("downloading weights")
	path, err := l.store.Ensure(ctx, mdl, func(downloaded, total int64) {
		if total > 0 {
			report(fmt.Sprintf("downloading weights %d%%", downloaded*100/total))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("fetch weights for %s: %w", mdl.ID, err)
	}

	report("loading weights")
	m, err := gollama.New(path, gollama.SetContext(l.ctxSize))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &handle{model: m, threads: l.threads}, nil
}

// handle owns one loaded model instance.
type handle struct {
	model   *gollama.LLama
	threads int
}

func (h *handle) Generate(ctx context.Context, prompt string, params lifecycle.SampleParams, onToken func(string) error) (string, error) {
	if h.model == nil {
		return "", errors.New("model already closed")
	}

	// Bridge the token callback: returning false stops prediction.
	h.model.SetTokenCallback(func(tok string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		if onToken != nil {
			if err := onToken(tok); err != nil {
				return false
			}
		}
		return true
	})

	text, err := h.model.Predict(prompt, predictOptions(params, h.threads)...)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return text, err
	}
	return text, nil
}

func (h *handle) Close() error {
	if h.model != nil {
		h.model.Free()
		h.model = nil
	}
	return nil
}

// predictOptions maps sampling settings onto go-llama.cpp options.
// Temperature is passed through as-is; 0 means greedy decoding, not the
// library default.
func predictOptions(params lifecycle.SampleParams, threads int) []gollama.PredictOption {
	maxTokens := params.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1
	}
	if threads <= 0 {
		threads = 1
	}
	return []gollama.PredictOption{
		gollama.SetTokens(maxTokens),
		gollama.SetThreads(threads),
		gollama.SetTemperature(float32(params.Temperature)),
	}
}
