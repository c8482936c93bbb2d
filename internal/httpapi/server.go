package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"advisord/pkg/api"
)

// NewMux builds the HTTP router over a Service.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, api.ModelsResponse{Models: svc.Models()})
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Status())
	})

	r.Post("/load", func(w http.ResponseWriter, r *http.Request) {
		var req api.LoadRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		id := strings.TrimSpace(req.ModelID)
		if id == "" {
			writeJSONError(w, http.StatusBadRequest, "model_id is required")
			return
		}
		if err := svc.StartLoad(id); err != nil {
			writeServiceError(w, err)
			return
		}
		opID := uuid.NewString()
		log.Info().Str("model", id).Str("op_id", opID).Msg("load accepted")
		writeJSON(w, http.StatusAccepted, api.LoadAccepted{OpID: opID, ModelID: id, Status: "loading"})
	})

	r.Post("/unload", func(w http.ResponseWriter, r *http.Request) {
		svc.Unload()
		writeJSON(w, http.StatusOK, map[string]string{"status": "unloaded"})
	})

	r.Post("/generate", func(w http.ResponseWriter, r *http.Request) {
		var req api.GenerateRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		start := time.Now()
		resp, err := svc.Generate(ctx, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		log.Debug().Str("model", resp.Model).Dur("dur", time.Since(start)).Msg("generate done")
		writeJSON(w, http.StatusOK, resp)
	})

	r.Post("/generate/stream", func(w http.ResponseWriter, r *http.Request) {
		var req api.GenerateRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		snapshots, err := svc.StreamGenerate(ctx, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/x-ndjson")
		w.WriteHeader(http.StatusOK)
		flusher, _ := w.(http.Flusher)
		enc := json.NewEncoder(w)
		var last string
		for s := range snapshots {
			last = s
			if err := enc.Encode(api.StreamChunk{Content: s}); err != nil {
				// Client went away; the manager's consumer notices the
				// canceled context and detaches.
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		_ = enc.Encode(api.StreamChunk{Content: last, Done: true})
		if flusher != nil {
			flusher.Flush()
		}
	})

	r.Get("/artifacts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Artifacts())
	})

	r.Delete("/artifacts/{modelID}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "modelID")
		if err := svc.RemoveArtifact(id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "removed", "model_id": id})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("no model"))
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// decodeJSON enforces content type and body size, decoding into dst. It
// writes the error response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}
