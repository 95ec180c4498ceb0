// Package route orchestrates routing requests against the external
// BRouter search engine: validation, profile and tile resolution,
// recovery persistence and outcome mapping.
package route

import (
	"errors"
	"fmt"
	"time"

	"github.com/routekit/routekit/internal/geo"
	"github.com/routekit/routekit/internal/profile"
)

// Sentinel errors for request validation and orchestration.
var (
	// ErrTooFewPoints indicates the request has fewer than two route points.
	ErrTooFewPoints = errors.New("at least two route points are required")
	// ErrNoBaseDir indicates the request has no base directory.
	ErrNoBaseDir = errors.New("base directory must be set")
	// ErrSegmentsDirMissing indicates the segments directory does not exist.
	ErrSegmentsDirMissing = errors.New("segments directory does not exist")
	// ErrProfilesDirMissing indicates the profiles directory does not exist.
	ErrProfilesDirMissing = errors.New("profiles directory does not exist")
	// ErrTileMissing indicates a required routing data segment is absent.
	ErrTileMissing = errors.New("routing data segment not found")
	// ErrEngineFailed indicates the external engine reported a failure.
	ErrEngineFailed = errors.New("routing engine error")
)

// TurnInstructionMode selects the turn-instruction format produced by
// the engine.
type TurnInstructionMode int

// Supported turn-instruction formats.
const (
	TurnNone TurnInstructionMode = iota
	TurnAuto
	TurnLocus
	TurnOsmand
	TurnComment
	TurnGpsies
)

// DefaultMaxTime is the search time budget applied when the request
// does not set one.
const DefaultMaxTime = 60 * time.Second

// ExclusionZone is a circular region the search must avoid.
type ExclusionZone struct {
	Center geo.Point
	Radius float64 // meters, non-negative
}

// Request is a logical routing request. The first point is the origin,
// the last the destination, interior points are via-points.
type Request struct {
	BaseDir          string
	Points           []geo.Point
	Exclusions       []ExclusionZone
	Profile          profile.Selector
	TurnInstructions TurnInstructionMode
	StartDirection   int
	MaxTime          time.Duration
	Alternative      int

	validated bool
}

// Validated reports whether this request already passed validation in
// this process. Re-validating a validated request is a no-op.
func (r *Request) Validated() bool {
	return r.validated
}

// maxTime returns the effective search budget.
func (r *Request) maxTime() time.Duration {
	if r.MaxTime <= 0 {
		return DefaultMaxTime
	}
	return r.MaxTime
}

// Track is a produced route.
type Track struct {
	Points          []geo.Point
	DistanceMeters  int
	DurationSeconds int
}

// Result is a successful routing outcome.
type Result struct {
	Track *Track
	// ProfileName is the resolved short profile name used for the search.
	ProfileName string
	// Alternative echoes the requested alternate-route index.
	Alternative int
}

// TileError reports a routing data segment missing for a specific
// request coordinate.
type TileError struct {
	Point geo.Point
	Tile  geo.Tile
}

func (e *TileError) Error() string {
	return fmt.Sprintf("segment file %s missing for %.6f,%.6f",
		e.Tile.Filename(), e.Point.Lat, e.Point.Lon)
}

func (e *TileError) Unwrap() error {
	return ErrTileMissing
}

// EngineError carries a failure message reported by the external engine,
// passed through verbatim with a provenance prefix.
type EngineError struct {
	Message string
}

func (e *EngineError) Error() string {
	return "routing error: " + e.Message
}

func (e *EngineError) Unwrap() error {
	return ErrEngineFailed
}

// buildWaypoints encodes the request points in input order, naming the
// first "from", the last "to" and interior points "via<index>".
func buildWaypoints(points []geo.Point) ([]geo.Waypoint, error) {
	if len(points) < 2 {
		return nil, ErrTooFewPoints
	}

	wps := make([]geo.Waypoint, len(points))
	for i, p := range points {
		wps[i] = geo.NewWaypoint(fmt.Sprintf("via%d", i), p)
	}
	wps[0].Name = "from"
	wps[len(wps)-1].Name = "to"
	return wps, nil
}

// buildNogos encodes the exclusion zones as hard-exclusion waypoints.
func buildNogos(zones []ExclusionZone) []geo.Waypoint {
	nogos := make([]geo.Waypoint, 0, len(zones))
	for _, z := range zones {
		nogos = append(nogos, geo.NewNogo(z.Center, z.Radius))
	}
	return nogos
}
