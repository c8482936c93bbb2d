package httpapi

import (
	"context"
	"strings"
	"time"

	"advisord/internal/catalog"
	"advisord/internal/lifecycle"
	"advisord/internal/llama"
	"advisord/internal/store"
	"advisord/pkg/api"
)

// Service defines what the HTTP layer needs from the application.
type Service interface {
	Models() []api.Model
	Status() api.StatusResponse
	StartLoad(modelID string) error
	Unload()
	Generate(ctx context.Context, req api.GenerateRequest) (api.GenerateResponse, error)
	StreamGenerate(ctx context.Context, req api.GenerateRequest) (<-chan string, error)
	Artifacts() api.ArtifactsResponse
	RemoveArtifact(modelID string) error
	Ready() bool
}

// service adapts the lifecycle manager and artifact store to the Service
// interface.
type service struct {
	mgr *lifecycle.Manager
	st  *store.Store
}

// NewService wires the manager and store behind the HTTP surface.
func NewService(mgr *lifecycle.Manager, st *store.Store) Service {
	return &service{mgr: mgr, st: st}
}

func (s *service) Models() []api.Model {
	models := s.mgr.Models()
	out := make([]api.Model, 0, len(models))
	for _, m := range models {
		_, cached := s.st.Path(m.ID)
		out = append(out, api.Model{
			ID:            m.ID,
			Name:          m.Name,
			Repo:          m.Repo,
			Quant:         m.Quant,
			Family:        m.Family,
			ContextWindow: m.ContextWindow,
			FileSizeMB:    m.FileSizeMB,
			Cached:        cached,
		})
	}
	return out
}

func (s *service) Status() api.StatusResponse {
	st := s.mgr.Status()
	state, _ := s.mgr.StateSnapshot()
	return api.StatusResponse{
		State:            string(state),
		Available:        st.Available,
		Loading:          st.Loading,
		CurrentModel:     st.CurrentModel,
		LastError:        st.LastError,
		DeviceMemUsedMB:  st.DeviceMemUsedMB,
		DeviceMemTotalMB: st.DeviceMemTotalMB,
		UptimeSeconds:    st.UptimeSeconds,
		LoadsTotal:       st.LoadsTotal,
		ServerTimeUnix:   time.Now().Unix(),
		EngineBuilt:      llama.Built(),
	}
}

// StartLoad kicks off a background load. Completion and failure are
// observable through Status. Ids outside the catalog are accepted when
// they look like a repo path; anything else is rejected up front.
func (s *service) StartLoad(modelID string) error {
	if _, ok := catalog.Find(s.mgr.Models(), modelID); !ok && !strings.Contains(modelID, "/") {
		return lifecycle.ErrModelNotFound(modelID)
	}
	go s.mgr.Load(context.Background(), modelID, nil)
	return nil
}

func (s *service) Unload() {
	s.mgr.Unload()
}

func (s *service) Generate(ctx context.Context, req api.GenerateRequest) (api.GenerateResponse, error) {
	if !s.mgr.Available() {
		return api.GenerateResponse{}, errNoModelLoaded()
	}
	lreq, err := toLifecycleRequest(req)
	if err != nil {
		return api.GenerateResponse{}, err
	}
	_, model := s.mgr.StateSnapshot()
	start := time.Now()
	content := s.mgr.Generate(ctx, lreq)
	return api.GenerateResponse{
		Content:    content,
		Model:      model,
		DurationMs: time.Since(start).Milliseconds(),
	}, nil
}

func (s *service) StreamGenerate(ctx context.Context, req api.GenerateRequest) (<-chan string, error) {
	if !s.mgr.Available() {
		return nil, errNoModelLoaded()
	}
	lreq, err := toLifecycleRequest(req)
	if err != nil {
		return nil, err
	}
	return s.mgr.StreamGenerate(ctx, lreq), nil
}

func (s *service) Artifacts() api.ArtifactsResponse {
	var resp api.ArtifactsResponse
	for _, a := range s.st.List() {
		out := api.Artifact{
			ModelID:   a.ModelID,
			Path:      a.Path,
			SizeBytes: a.SizeBytes,
		}
		if !a.LastUsed.IsZero() {
			out.LastUsedUnix = a.LastUsed.Unix()
		}
		if info, err := s.st.Inspect(a.ModelID); err == nil {
			out.Architecture = info.Architecture
			out.Quantization = info.Quantization
		}
		resp.Artifacts = append(resp.Artifacts, out)
		resp.TotalBytes += a.SizeBytes
	}
	return resp
}

func (s *service) RemoveArtifact(modelID string) error {
	if _, ok := s.st.Path(modelID); !ok {
		return errNotFound("artifact not cached: " + modelID)
	}
	return s.st.Remove(modelID)
}

func (s *service) Ready() bool {
	return s.mgr.Available()
}

// toLifecycleRequest validates and converts the wire request. Messages win
// over Prompt when both are set.
func toLifecycleRequest(req api.GenerateRequest) (lifecycle.Request, error) {
	if len(req.Messages) > 0 {
		msgs := make([]lifecycle.Message, 0, len(req.Messages))
		for _, m := range req.Messages {
			msgs = append(msgs, lifecycle.Message{Role: m.Role, Content: m.Content})
		}
		out := lifecycle.ChatRequest(req.System, msgs, req.Temperature)
		out.MaxTokens = req.MaxTokens
		return out, nil
	}
	if req.Prompt == "" {
		return lifecycle.Request{}, errBadRequest("prompt or messages is required")
	}
	out := lifecycle.UserRequest(req.System, req.Prompt, req.Temperature)
	out.MaxTokens = req.MaxTokens
	return out, nil
}
