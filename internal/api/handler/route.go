package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/routekit/routekit/internal/api/middleware"
	"github.com/routekit/routekit/internal/api/models"
	"github.com/routekit/routekit/internal/api/response"
	"github.com/routekit/routekit/internal/geo"
	"github.com/routekit/routekit/internal/history"
	"github.com/routekit/routekit/internal/profile"
	"github.com/routekit/routekit/internal/route"
	"github.com/routekit/routekit/pkg/polyline"
)

// routeComputer runs a routing request end to end.
type routeComputer interface {
	Route(ctx context.Context, req *route.Request) (*route.Result, error)
}

// RouteHandler handles route computation endpoints.
type RouteHandler struct {
	orchestrator routeComputer
	history      *history.Service
	metrics      *middleware.RoutingMetrics
	baseDir      string
	logger       zerolog.Logger
}

// RouteHandlerConfig holds dependencies for the route handler.
type RouteHandlerConfig struct {
	Orchestrator routeComputer
	History      *history.Service
	Metrics      *middleware.RoutingMetrics
	BaseDir      string
	Logger       zerolog.Logger
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(cfg RouteHandlerConfig) *RouteHandler {
	return &RouteHandler{
		orchestrator: cfg.Orchestrator,
		history:      cfg.History,
		metrics:      cfg.Metrics,
		baseDir:      cfg.BaseDir,
		logger:       cfg.Logger,
	}
}

// ComputeRoute handles POST /v1/routes:compute.
func (h *RouteHandler) ComputeRoute(w http.ResponseWriter, r *http.Request) {
	var input models.RouteComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if fieldErrs := validateComputeRequest(&input); len(fieldErrs) > 0 {
		response.BadRequest(w, r, "invalid route request", fieldErrs)
		return
	}

	req := buildRequest(h.baseDir, &input)

	start := time.Now()
	result, err := h.orchestrator.Route(r.Context(), req)
	if h.metrics != nil {
		h.metrics.RecordCompute(input.Profile, time.Since(start), err)
	}
	if err != nil {
		h.writeRouteError(w, r, req, err)
		return
	}

	if h.history != nil {
		h.history.RecordSuccess(r.Context(), result.ProfileName, req.Points,
			result.Track.DistanceMeters, result.Track.DurationSeconds)
	}

	response.JSON(w, r, http.StatusOK, models.RouteComputeResponse{
		Profile:          result.ProfileName,
		Alternative:      result.Alternative,
		DistanceMeters:   result.Track.DistanceMeters,
		DurationSeconds:  result.Track.DurationSeconds,
		GeometryPolyline: encodeGeometry(result.Track.Points),
		GeneratedAt:      time.Now().UTC(),
	})
}

// validateComputeRequest checks request shape before hitting the orchestrator,
// so malformed bodies produce field level errors instead of opaque 400s.
func validateComputeRequest(input *models.RouteComputeRequest) []models.FieldError {
	var errs []models.FieldError

	if len(input.Points) < 2 {
		errs = append(errs, models.FieldError{
			Field:   "points",
			Message: "at least two points are required",
		})
	}
	for _, p := range input.Points {
		if p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
			errs = append(errs, models.FieldError{
				Field:   "points",
				Message: "coordinates out of range",
			})
			break
		}
	}
	for _, n := range input.Nogos {
		if n.Radius < 0 {
			errs = append(errs, models.FieldError{
				Field:   "nogos",
				Message: "radius must be non-negative",
			})
			break
		}
	}
	if input.TurnInstructions < int(route.TurnNone) || input.TurnInstructions > int(route.TurnGpsies) {
		errs = append(errs, models.FieldError{
			Field:   "turnInstructions",
			Message: "unknown turn instruction mode",
		})
	}

	return errs
}

// buildRequest maps the wire request to a logical routing request.
func buildRequest(baseDir string, input *models.RouteComputeRequest) *route.Request {
	points := make([]geo.Point, len(input.Points))
	for i, p := range input.Points {
		points[i] = geo.Point{Lat: p.Lat, Lon: p.Lon}
	}

	exclusions := make([]route.ExclusionZone, len(input.Nogos))
	for i, n := range input.Nogos {
		exclusions[i] = route.ExclusionZone{
			Center: geo.Point{Lat: n.Center.Lat, Lon: n.Center.Lon},
			Radius: n.Radius,
		}
	}

	return &route.Request{
		BaseDir:    baseDir,
		Points:     points,
		Exclusions: exclusions,
		Profile: profile.Selector{
			Bundled:    profile.Bundled(input.Profile),
			CustomPath: input.ProfilePath,
			RemoteBody: input.RemoteProfile,
		},
		TurnInstructions: route.TurnInstructionMode(input.TurnInstructions),
		StartDirection:   input.StartDirection,
		MaxTime:          time.Duration(input.MaxTimeSeconds) * time.Second,
		Alternative:      input.Alternative,
	}
}

// writeRouteError maps orchestration errors onto problem responses.
// Profile selection and request shape problems are client errors, missing
// routing data is a failed dependency and engine refusals are unprocessable.
func (h *RouteHandler) writeRouteError(w http.ResponseWriter, r *http.Request, req *route.Request, err error) {
	switch {
	case errors.Is(err, route.ErrTooFewPoints):
		response.BadRequest(w, r, err.Error(), []models.FieldError{
			{Field: "points", Message: "at least two points are required"},
		})
	case errors.Is(err, profile.ErrNoSelector),
		errors.Is(err, profile.ErrAmbiguousSelector),
		errors.Is(err, profile.ErrUnknownBundled),
		errors.Is(err, profile.ErrCustomFileMissing):
		response.BadRequest(w, r, err.Error(), []models.FieldError{
			{Field: "profile", Message: profileFieldMessage(err)},
		})
	case errors.Is(err, route.ErrTileMissing):
		h.recordFailure(r.Context(), req, "tile_missing")
		response.MissingResource(w, r, err.Error())
	case errors.Is(err, route.ErrSegmentsDirMissing),
		errors.Is(err, route.ErrProfilesDirMissing),
		errors.Is(err, route.ErrNoBaseDir):
		h.recordFailure(r.Context(), req, "data_dir_missing")
		response.MissingResource(w, r, err.Error())
	case errors.Is(err, route.ErrEngineFailed):
		h.recordFailure(r.Context(), req, "engine_failed")
		response.RoutingFailed(w, r, err.Error())
	default:
		h.recordFailure(r.Context(), req, "internal")
		h.logger.Error().Err(err).Msg("route computation failed")
		response.InternalError(w, r, "route computation failed")
	}
}

func profileFieldMessage(err error) string {
	var perr *profile.Error
	if errors.As(err, &perr) {
		return perr.Message
	}
	return err.Error()
}

func (h *RouteHandler) recordFailure(ctx context.Context, req *route.Request, kind string) {
	if h.history == nil {
		return
	}
	h.history.RecordFailure(ctx, string(req.Profile.Bundled), req.Points, kind)
}

// encodeGeometry encodes track geometry as a precision 5 polyline.
func encodeGeometry(points []geo.Point) string {
	pts := make([]polyline.Point, len(points))
	for i, p := range points {
		pts[i] = polyline.Point{Lat: p.Lat, Lon: p.Lon}
	}
	return polyline.Encode(pts)
}
