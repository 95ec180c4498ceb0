package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/routekit/routekit/internal/api/models"
	"github.com/routekit/routekit/internal/api/response"
	"github.com/routekit/routekit/internal/history"
)

// HistoryHandler handles the admin route history endpoints.
type HistoryHandler struct {
	history *history.Service
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(svc *history.Service) *HistoryHandler {
	return &HistoryHandler{history: svc}
}

// ListRoutes handles GET /v1/admin/routes - list recorded route computations.
func (h *HistoryHandler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	opts := history.ListOptions{
		Profile: r.URL.Query().Get("profile"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			response.BadRequest(w, r, "invalid limit parameter", []models.FieldError{
				{Field: "limit", Message: "must be a positive integer"},
			})
			return
		}
		opts.Limit = limit
	}

	page, err := h.history.List(r.Context(), opts)
	if err != nil {
		response.InternalError(w, r, "failed to list route records")
		return
	}

	records := make([]models.RouteRecord, len(page.Records))
	for i, rec := range page.Records {
		records[i] = toAPIRecord(rec)
	}

	response.JSON(w, r, http.StatusOK, models.RouteRecordsResponse{
		Records: records,
		HasMore: page.HasMore,
	})
}

// GetRoute handles GET /v1/admin/routes/{recordId} - fetch one record.
func (h *HistoryHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "recordId")

	rec, err := h.history.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, history.ErrRecordNotFound) {
			response.NotFound(w, r, "route record not found")
			return
		}
		response.InternalError(w, r, "failed to load route record")
		return
	}

	response.JSON(w, r, http.StatusOK, toAPIRecord(*rec))
}

func toAPIRecord(rec history.Record) models.RouteRecord {
	return models.RouteRecord{
		ID:              rec.ID,
		Profile:         rec.ProfileName,
		Origin:          models.Point{Lat: rec.Origin.Lat, Lon: rec.Origin.Lon},
		Destination:     models.Point{Lat: rec.Destination.Lat, Lon: rec.Destination.Lon},
		Waypoints:       rec.Waypoints,
		DistanceMeters:  rec.DistanceMeters,
		DurationSeconds: rec.DurationSeconds,
		Status:          string(rec.Status),
		ErrorKind:       rec.ErrorKind,
		CreatedAt:       rec.CreatedAt,
	}
}
