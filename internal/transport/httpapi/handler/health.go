package handler

import (
	"context"
	"net/http"
	"time"
)

// DatabasePinger defines the interface for checking database connectivity
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to the DatabasePinger interface
type PingerFunc func(ctx context.Context) error

// Ping implements DatabasePinger
func (f PingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// HealthHandler handles health check requests
type HealthHandler struct {
	db    DatabasePinger
	redis DatabasePinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db, redis DatabasePinger) *HealthHandler {
	return &HealthHandler{
		db:    db,
		redis: redis,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
	Uptime  string            `json:"uptime,omitempty"`
}

var startTime = time.Now()

// GetHealth handles GET /health
// Basic health check - returns 200 OK if service is running
func GetHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
		Uptime:  time.Since(startTime).String(),
		Checks:  map[string]string{},
	}, http.StatusOK)
}

// GetLiveness handles GET /health/live
func GetLiveness(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "alive"}, http.StatusOK)
}

// GetReadiness handles GET /health/ready
// The vault serves from memory; readiness only degrades when the mirror and
// cache are both unreachable.
func (h *HealthHandler) GetReadiness(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	status := "ok"
	code := http.StatusOK

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		checks["database"] = "unhealthy: " + err.Error()
		status = "degraded"
	} else {
		checks["database"] = "ok"
	}

	if err := h.redis.Ping(ctx); err != nil {
		checks["redis"] = "unhealthy: " + err.Error()
		status = "degraded"
	} else {
		checks["redis"] = "ok"
	}

	respondJSON(w, HealthResponse{
		Status:  status,
		Version: "1.0.0",
		Uptime:  time.Since(startTime).String(),
		Checks:  checks,
	}, code)
}
