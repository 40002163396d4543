package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// HealthHandler serves liveness and readiness endpoints.
type HealthHandler struct {
	service StudentService
	logger  *slog.Logger
	started time.Time
	version string
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(service StudentService, logger *slog.Logger, version string) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "health")),
		started: time.Now(),
		version: version,
	}
}

// Routes mounts the health endpoints.
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetHealth)
	r.Get("/ready", h.GetReadiness)
	return r
}

// healthResponse is the health endpoint payload.
type healthResponse struct {
	Status  string      `json:"status"`
	Version string      `json:"version"`
	Uptime  string      `json:"uptime"`
	Dataset interface{} `json:"dataset"`
}

// GetHealth reports process liveness plus dataset availability. The endpoint
// always returns 200; a missing snapshot shows as a degraded dataset, not a
// dead process.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, healthResponse{
		Status:  "ok",
		Version: h.version,
		Uptime:  time.Since(h.started).Round(time.Second).String(),
		Dataset: h.service.Health(),
	})
}

// GetReadiness returns 200 once a snapshot is published, 503 before.
func (h *HealthHandler) GetReadiness(w http.ResponseWriter, r *http.Request) {
	status := h.service.Health()
	if status.Status != "healthy" {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, status)
}
