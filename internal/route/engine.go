package route

import (
	"context"
	"time"

	"github.com/routekit/routekit/internal/geo"
)

// Engine is the external turn-by-turn search engine. Implementations
// are expected to return within the request's MaxTime, possibly with a
// partial raw track instead of an error when the budget is exhausted.
type Engine interface {
	// Run performs a blocking search. A non-nil error covers invocation
	// failures only; search failures are reported via ErrorMessage.
	Run(ctx context.Context, req EngineRequest) (*EngineResult, error)
	// Name identifies the engine for logging.
	Name() string
}

// EngineRequest is the full input handed to one engine invocation.
type EngineRequest struct {
	SegmentsDir      string
	Waypoints        []geo.Waypoint
	Nogos            []geo.Waypoint
	ProfilePath      string
	RawTrackPath     string
	TurnInstructions TurnInstructionMode
	StartDirection   int
	Alternative      int
	MaxTime          time.Duration

	// Quiet suppresses the engine's default console emission of route
	// data, an engine quirk this layer is responsible for disabling.
	Quiet bool
}

// EngineResult is the raw outcome of one engine invocation. Any of the
// fields may be unset: a timed-out search can yield a raw track and an
// error message without a final track.
type EngineResult struct {
	Track        *Track
	RawTrack     []byte
	ErrorMessage string
}
