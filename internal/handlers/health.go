package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Version is reported by the health endpoint
var Version = "1.0.0"

// sessionCounter reports how many checkout sessions are live
type sessionCounter interface {
	ActiveSessions() int
}

// HealthHandler provides health check endpoint
type HealthHandler struct {
	sessions sessionCounter
	logger   *zap.SugaredLogger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(sessions sessionCounter, logger *zap.SugaredLogger) *HealthHandler {
	return &HealthHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	Version        string    `json:"version"`
	ActiveSessions int       `json:"activeSessions"`
}

// ServeHTTP handles health check requests
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:         "healthy",
		Timestamp:      time.Now().UTC(),
		Version:        Version,
		ActiveSessions: h.sessions.ActiveSessions(),
	}

	WriteJSON(w, http.StatusOK, response, h.logger)
}
