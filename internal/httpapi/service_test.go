package httpapi

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"advisord/internal/catalog"
	"advisord/internal/lifecycle"
	"advisord/internal/store"
	"advisord/pkg/api"
)

type stubHandle struct{ text string }

func (h *stubHandle) Generate(ctx context.Context, prompt string, params lifecycle.SampleParams, onToken func(string) error) (string, error) {
	if onToken != nil {
		if err := onToken(h.text); err != nil {
			return "", err
		}
	}
	return h.text, nil
}

func (h *stubHandle) Close() error { return nil }

type stubLoader struct{ text string }

func (l *stubLoader) Load(ctx context.Context, mdl catalog.Model, progress func(string)) (lifecycle.Handle, error) {
	return &stubHandle{text: l.text}, nil
}

func newTestService(t *testing.T, text string) (Service, *lifecycle.Manager, *store.Store) {
	t.Helper()
	st, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	mgr := lifecycle.NewWithConfig(lifecycle.ManagerConfig{
		Loader:  &stubLoader{text: text},
		Catalog: []catalog.Model{{ID: "qwen3-4b-q4", Name: "Qwen3 4B (Q4)", Repo: "Qwen/Qwen3-4B-GGUF", Filename: "q.gguf"}},
	})
	return NewService(mgr, st), mgr, st
}

func TestServiceGenerateRequiresModel(t *testing.T) {
	svc, _, _ := newTestService(t, "out")
	_, err := svc.Generate(context.Background(), api.GenerateRequest{Prompt: "hi"})
	he, ok := err.(HTTPError)
	if !ok || he.StatusCode() != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
}

func TestServiceGenerateAfterLoad(t *testing.T) {
	svc, mgr, _ := newTestService(t, "out")
	mgr.Load(context.Background(), "qwen3-4b-q4", nil)
	resp, err := svc.Generate(context.Background(), api.GenerateRequest{Prompt: "hi"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Content != "out" || resp.Model != "qwen3-4b-q4" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestServiceGenerateValidatesRequest(t *testing.T) {
	svc, mgr, _ := newTestService(t, "out")
	mgr.Load(context.Background(), "qwen3-4b-q4", nil)
	_, err := svc.Generate(context.Background(), api.GenerateRequest{})
	he, ok := err.(HTTPError)
	if !ok || he.StatusCode() != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestServiceModelsReportCached(t *testing.T) {
	svc, _, st := newTestService(t, "out")
	models := svc.Models()
	if len(models) != 1 || models[0].Cached {
		t.Fatalf("unexpected models: %+v", models)
	}

	// Drop a weight file into the cache dir and let Ensure adopt it.
	path := filepath.Join(st.Dir(), "q.gguf")
	if err := os.WriteFile(path, []byte("weights"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Ensure(context.Background(), catalog.Model{ID: "qwen3-4b-q4", Filename: "q.gguf"}, nil); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	models = svc.Models()
	if !models[0].Cached {
		t.Fatalf("model not reported cached: %+v", models)
	}
}

func TestServiceStartLoadValidatesID(t *testing.T) {
	svc, _, _ := newTestService(t, "out")
	if err := svc.StartLoad("not-in-catalog"); !lifecycle.IsModelNotFound(err) {
		t.Fatalf("expected model-not-found, got %v", err)
	}
	// Repo-shaped ids bypass the catalog.
	if err := svc.StartLoad("Qwen/Qwen3-0.6B-GGUF"); err != nil {
		t.Fatalf("repo id rejected: %v", err)
	}
	if err := svc.StartLoad("qwen3-4b-q4"); err != nil {
		t.Fatalf("catalog id rejected: %v", err)
	}
}

func TestServiceRemoveArtifactMissing(t *testing.T) {
	svc, _, _ := newTestService(t, "out")
	err := svc.RemoveArtifact("nope")
	he, ok := err.(HTTPError)
	if !ok || he.StatusCode() != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestServiceStatusCarriesState(t *testing.T) {
	svc, mgr, _ := newTestService(t, "out")
	st := svc.Status()
	if st.State != "unloaded" || st.Available {
		t.Fatalf("fresh status: %+v", st)
	}
	mgr.Load(context.Background(), "qwen3-4b-q4", nil)
	st = svc.Status()
	if st.State != "ready" || !st.Available || st.ServerTimeUnix == 0 {
		t.Fatalf("post-load status: %+v", st)
	}
}
