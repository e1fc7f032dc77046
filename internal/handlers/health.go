package handlers

import (
	"log/slog"
	"net/http"
	"time"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// HealthHandler provides health check endpoint
type HealthHandler struct {
	logger   *slog.Logger
	channels map[string]bool
}

// NewHealthHandler creates a new health handler. channels maps each
// notification channel to whether it has the configuration it needs.
func NewHealthHandler(logger *slog.Logger, channels map[string]bool) *HealthHandler {
	return &HealthHandler{
		logger:   logger,
		channels: channels,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string          `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
	Version   string          `json:"version"`
	Channels  map[string]bool `json:"channels"`
}

// ServeHTTP handles health check requests. Unconfigured channels do not make
// the service unhealthy; their sends are skipped.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   Version,
		Channels:  h.channels,
	}

	WriteJSON(w, http.StatusOK, response, h.logger)
}
