package history

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/routekit/routekit/internal/geo"
)

// Service records compute outcomes. Recording is best-effort: a failed
// insert is logged and dropped, never surfaced to the request path.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

// NewService creates a history service.
func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// RecordSuccess stores a completed route.
func (s *Service) RecordSuccess(ctx context.Context, profileName string, points []geo.Point, distanceMeters, durationSeconds int) {
	s.record(ctx, &Record{
		ID:              newRecordID(),
		ProfileName:     profileName,
		Origin:          points[0],
		Destination:     points[len(points)-1],
		Waypoints:       len(points),
		DistanceMeters:  distanceMeters,
		DurationSeconds: durationSeconds,
		Status:          StatusCompleted,
		CreatedAt:       time.Now().UTC(),
	})
}

// RecordFailure stores a failed compute attempt with its error kind.
func (s *Service) RecordFailure(ctx context.Context, profileName string, points []geo.Point, errorKind string) {
	rec := &Record{
		ID:          newRecordID(),
		ProfileName: profileName,
		Waypoints:   len(points),
		Status:      StatusFailed,
		ErrorKind:   errorKind,
		CreatedAt:   time.Now().UTC(),
	}
	if len(points) > 0 {
		rec.Origin = points[0]
		rec.Destination = points[len(points)-1]
	}
	s.record(ctx, rec)
}

// Get retrieves a record by id.
func (s *Service) Get(ctx context.Context, id string) (*Record, error) {
	return s.repo.Get(ctx, id)
}

// List returns recorded routes newest first.
func (s *Service) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	return s.repo.List(ctx, opts)
}

func (s *Service) record(ctx context.Context, rec *Record) {
	if err := s.repo.Insert(ctx, rec); err != nil {
		s.logger.Warn().Err(err).Str("record_id", rec.ID).Msg("route record insert failed, continuing")
	}
}

func newRecordID() string {
	return "rte_" + uuid.New().String()[:12]
}
