package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"indicli/internal/services"
)

// HealthServiceInterface defines the interface for health checks
type HealthServiceInterface interface {
	Check(ctx context.Context) services.HealthStatus
}

// HealthHandler handles health and readiness requests
type HealthHandler struct {
	service HealthServiceInterface
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service HealthServiceInterface, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("component", "health_handler")),
	}
}

// Routes returns the health routes
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetHealth)
	r.Get("/ready", h.GetReadiness)

	return r
}

// GetHealth handles GET /api/health
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := h.service.Check(r.Context())

	code := http.StatusOK
	if status.Status != "ok" {
		code = http.StatusServiceUnavailable
		h.logger.WarnContext(r.Context(), "health check degraded",
			slog.Any("missing_dirs", status.MissingDirs),
		)
	}

	render.Status(r, code)
	render.JSON(w, r, status)
}

// GetReadiness handles GET /api/health/ready with a minimal liveness payload
func (h *HealthHandler) GetReadiness(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status": "ready",
	})
}
