package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/game-leaderboard/internal/domain"
)

// LeaderboardService is the core the HTTP layer exposes.
type LeaderboardService interface {
	TopN(ctx context.Context, section string, limit int) ([]domain.LeaderboardEntry, error)
	Submit(ctx context.Context, sub domain.ScoreSubmission) (*domain.SubmissionResult, error)
	DefaultLimit() int
}

// Handler provides HTTP handlers for the leaderboard API
type Handler struct {
	service LeaderboardService
	webDir  string
	logger  *slog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(service LeaderboardService, webDir string, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		webDir:  webDir,
		logger:  logger,
	}
}

// errorResponse is the wire shape for request failures.
type errorResponse struct {
	Error string `json:"error"`
}

// Router creates and configures the HTTP router
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(corsMiddleware)

	// Health check
	r.Get("/health", h.HealthCheck)
	r.Get("/ready", h.ReadyCheck)

	// API
	r.Get("/api/leaderboard", h.GetLeaderboard)
	r.Post("/submit_score", h.SubmitScore)

	// Pages and static assets
	r.Get("/", h.IndexPage)
	r.Get("/leaderboard", h.LeaderboardPage)
	r.Handle("/assets/*", http.StripPrefix("/assets/",
		http.FileServer(http.Dir(filepath.Join(h.webDir, "assets")))))

	return r
}

// corsMiddleware adds CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, X-Request-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error JSON response
func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ReadyCheck returns service readiness status
func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// GetLeaderboard returns the deduplicated best-per-player view, optionally
// filtered to a section.
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := h.service.DefaultLimit()
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}
	section := r.URL.Query().Get("section")

	entries, err := h.service.TopN(r.Context(), section, limit)
	if err != nil {
		h.logger.Error("failed to query leaderboard", "error", err)
		h.writeError(w, http.StatusInternalServerError, domain.ErrInternalError)
		return
	}

	h.writeJSON(w, http.StatusOK, entries)
}

// SubmitScore handles score submission
func (h *Handler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	var sub domain.ScoreSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	result, err := h.service.Submit(r.Context(), sub)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidScore) {
			h.writeError(w, http.StatusBadRequest, domain.ErrInvalidScore)
			return
		}
		h.logger.Error("failed to submit score", "error", err)
		h.writeError(w, http.StatusInternalServerError, domain.ErrInternalError)
		return
	}

	h.writeJSON(w, http.StatusCreated, result)
}

// IndexPage serves the game page.
func (h *Handler) IndexPage(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(h.webDir, "index.html"))
}

// LeaderboardPage serves the leaderboard page.
func (h *Handler) LeaderboardPage(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(h.webDir, "leaderboard.html"))
}
