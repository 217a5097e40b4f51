package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/outfitter-labs/outfitter/internal/pipeline"
	"github.com/outfitter-labs/outfitter/internal/session"
)

// TurnRunner handles one caller turn. Satisfied by *pipeline.Pipeline.
type TurnRunner interface {
	Run(ctx context.Context, req pipeline.Request) pipeline.Result
}

type Server struct {
	router   *chi.Mux
	port     int
	mode     string
	runner   TurnRunner
	sessions *session.Store
	logger   *slog.Logger
}

func NewServer(port int, mode string, apiToken string, runner TurnRunner, sessions *session.Store, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		port:     port,
		mode:     mode,
		runner:   runner,
		sessions: sessions,
		logger:   logger,
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/outfitter/status", s.status)
	router.Post("/chat", s.chat)

	router.Route("/api/v1/sessions", func(r chi.Router) {
		r.Use(BearerAuthMiddleware(apiToken))
		r.Delete("/{sessionID}", s.evictSession)
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"agent":    "outfitter",
		"mode":     s.mode,
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) evictSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if !s.sessions.Evict(sessionID) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown session"})
		return
	}
	s.logger.Info("session evicted", "session_id", sessionID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "evicted"})
}

// BearerAuthMiddleware rejects requests without the configured bearer
// token. An empty token disables the protected routes entirely.
func BearerAuthMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "admin API not configured"})
				return
			}
			if r.Header.Get("Authorization") != "Bearer "+token {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
