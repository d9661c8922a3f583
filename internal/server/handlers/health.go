package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/iudanet/todoist/pkg/api"
)

// SessionCounter reports the number of attached sessions
type SessionCounter interface {
	Count() int
}

// Pinger проверяет доступность хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	logger   *slog.Logger
	sessions SessionCounter
	db       Pinger
	version  string
}

// NewHealthHandler создает новый handler для health check
func NewHealthHandler(logger *slog.Logger, version string, sessions SessionCounter, db Pinger) *HealthHandler {
	return &HealthHandler{
		logger:   logger,
		sessions: sessions,
		db:       db,
		version:  version,
	}
}

// Health обрабатывает GET /api/v1/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := api.HealthResponse{
		Status:   "ok",
		Version:  h.version,
		Sessions: h.sessions.Count(),
	}

	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			h.logger.Error("storage is unavailable", slog.Any("error", err))
			resp.Status = "degraded"
			SendJSON(w, h.logger, resp, http.StatusServiceUnavailable)
			return
		}
	}

	SendJSON(w, h.logger, resp, http.StatusOK)
}
