// Package handler provides HTTP handlers for the RouteKit API.
package handler

import (
	"net/http"
	"os"
	"time"

	"github.com/routekit/routekit/internal/api/models"
	"github.com/routekit/routekit/internal/api/response"
	"github.com/routekit/routekit/internal/storage"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	layout    storage.Layout
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, layout storage.Layout) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		layout:    layout,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now().UTC(),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. The service
// is ready when the routing data directories exist on disk.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	details := map[string]interface{}{
		"segmentsDir": dirStatus(h.layout.SegmentsDir()),
		"profilesDir": dirStatus(h.layout.ProfilesDir()),
	}

	status := models.HealthStatusOK
	code := http.StatusOK
	for _, v := range details {
		if v != models.HealthStatusOK {
			status = models.HealthStatusDegraded
			code = http.StatusServiceUnavailable
		}
	}

	response.JSON(w, r, code, models.Health{
		Status:  status,
		Time:    time.Now().UTC(),
		Details: details,
	})
}

func dirStatus(path string) string {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return "MISSING"
	}
	return models.HealthStatusOK
}
