package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"galaxy-explorer/internal/shared/response"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Cache     string `json:"cache"`
	Sessions  int    `json:"sessions"`
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

type SessionCounter interface {
	Count() int
}

type HealthHandler struct {
	db       Pinger
	cache    Pinger
	sessions SessionCounter
}

// NewHealthHandler reports on db and cache; cache may be nil.
func NewHealthHandler(db Pinger, cache Pinger, sessions SessionCounter) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, sessions: sessions}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Database:  "connected",
		Cache:     "disabled",
	}

	if err := h.db.PingContext(ctx); err != nil {
		logger.Warn("Database ping failed", "error", err)
		resp.Database = "disconnected"
		resp.Status = "degraded"
	}

	if h.cache != nil {
		resp.Cache = "connected"
		if err := h.cache.PingContext(ctx); err != nil {
			logger.Warn("Cache ping failed", "error", err)
			resp.Cache = "disconnected"
		}
	}

	if h.sessions != nil {
		resp.Sessions = h.sessions.Count()
	}

	response.Success(w, http.StatusOK, resp)
}
