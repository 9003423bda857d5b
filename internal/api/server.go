package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/chatlens/chatlens/internal/processor"
	"github.com/chatlens/chatlens/internal/store"
)

// Pipeline is the processing surface the server exposes over HTTP.
type Pipeline interface {
	Analyze(ctx context.Context, filename, content string) (*processor.Result, error)
	Parse(content string) (*processor.Result, error)
}

type Server struct {
	router    *chi.Mux
	port      int
	proc      Pipeline
	db        *store.Store // nil when history is disabled
	maxUpload int64
}

func NewServer(port int, proc Pipeline, db *store.Store, maxUpload int64) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:    router,
		port:      port,
		proc:      proc,
		db:        db,
		maxUpload: maxUpload,
	}

	router.Get("/health", s.health)
	router.Post("/api/v1/analyze", s.analyze)
	router.Post("/api/v1/parse", s.parse)
	if db != nil {
		router.Get("/api/v1/analyses", s.listAnalyses)
	}

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "chatlens",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   msg,
	})
}
