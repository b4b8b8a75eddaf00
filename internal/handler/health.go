package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// HealthHandler serves liveness and AI connectivity probes.
type HealthHandler struct {
	service AssessmentService
	logger  *slog.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(service AssessmentService, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger,
	}
}

// Live handles GET /health. It reports process liveness only and touches no
// dependencies.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// AI handles GET /api/health/ai. It probes the AI provider with a minimal
// completion; 200 means reachable, 503 means not.
func (h *HealthHandler) AI(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	healthy := h.service.HealthCheck(ctx)

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]bool{"ai": healthy})
}
