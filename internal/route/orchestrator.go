package route

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/routekit/routekit/internal/profile"
	"github.com/routekit/routekit/internal/storage"
)

const tracerName = "github.com/routekit/routekit/internal/route"

// State names the stages a request moves through. The machine is
// strictly linear per request; retries are the caller's responsibility.
type State string

// Request lifecycle states.
const (
	StateReceived          State = "received"
	StateValidated         State = "validated"
	StateProfileResolved   State = "profile_resolved"
	StateTilesChecked      State = "tiles_checked"
	StateRecoveryPersisted State = "recovery_persisted"
	StateEngineInvoked     State = "engine_invoked"
	StateCompleted         State = "completed"
	StateFailed            State = "failed"
)

// OrchestratorConfig holds configuration for the orchestrator.
type OrchestratorConfig struct {
	// Engine is the external search engine (required).
	Engine Engine

	// Logger for orchestration events.
	Logger zerolog.Logger
}

// Orchestrator coordinates one routing request end to end. It holds no
// cross-request mutable state; concurrent calls are safe, racing only
// on the best-effort cache files, where last-writer-wins is tolerated.
type Orchestrator struct {
	engine    Engine
	logger    zerolog.Logger
	tracer    trace.Tracer
	validator *Validator
	snapshots *SnapshotWriter
}

// NewOrchestrator creates a route orchestrator.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	return &Orchestrator{
		engine:    cfg.Engine,
		logger:    cfg.Logger,
		tracer:    otel.Tracer(tracerName),
		validator: NewValidator(cfg.Logger),
		snapshots: NewSnapshotWriter(cfg.Logger),
	}
}

// Route processes a request: validate, resolve the profile, build the
// waypoint and nogo sets, persist recovery state, invoke the engine and
// map its outcome. Expected failures come back as typed errors, never
// panics.
func (o *Orchestrator) Route(ctx context.Context, req *Request) (*Result, error) {
	ctx, span := o.tracer.Start(ctx, "route.compute",
		trace.WithAttributes(
			attribute.Int("route.points", len(req.Points)),
			attribute.Int("route.nogos", len(req.Exclusions)),
			attribute.Int("route.alternative", req.Alternative),
		),
	)
	defer span.End()

	log := o.logger.With().Str("engine", o.engine.Name()).Logger()
	o.transition(log, span, StateReceived)

	if err := o.validator.Validate(req); err != nil {
		return nil, o.fail(log, span, err)
	}
	o.transition(log, span, StateValidated)

	layout := storage.Layout{BaseDir: req.BaseDir}
	resolver := profile.NewResolver(layout, log)

	resolved, err := resolver.Resolve(req.Profile)
	if err != nil {
		return nil, o.fail(log, span, err)
	}
	span.SetAttributes(attribute.String("route.profile", resolved.Name))
	o.transition(log, span, StateProfileResolved)

	waypoints, err := buildWaypoints(req.Points)
	if err != nil {
		return nil, o.fail(log, span, err)
	}
	nogos := buildNogos(req.Exclusions)
	o.transition(log, span, StateTilesChecked)

	rawTrackPath := layout.RawTrackPath(resolved.Name)
	o.snapshots.Persist(layout.RecoveryPath(), resolved.Name, rawTrackPath, waypoints, nogos)
	o.transition(log, span, StateRecoveryPersisted)

	engineReq := EngineRequest{
		SegmentsDir:      layout.SegmentsDir(),
		Waypoints:        waypoints,
		Nogos:            nogos,
		ProfilePath:      resolved.Path,
		RawTrackPath:     rawTrackPath,
		TurnInstructions: req.TurnInstructions,
		StartDirection:   req.StartDirection,
		Alternative:      req.Alternative,
		MaxTime:          req.maxTime(),
		Quiet:            true,
	}

	o.transition(log, span, StateEngineInvoked)
	res, err := o.engine.Run(ctx, engineReq)
	if err != nil {
		return nil, o.fail(log, span, &EngineError{Message: err.Error()})
	}

	// A raw track can exist even for a timed-out search; cache it to
	// seed the next attempt.
	if len(res.RawTrack) > 0 {
		o.persistRawTrack(log, rawTrackPath, res.RawTrack)
	}

	if res.ErrorMessage != "" {
		return nil, o.fail(log, span, &EngineError{Message: res.ErrorMessage})
	}
	if res.Track == nil {
		return nil, o.fail(log, span, &EngineError{Message: "engine produced no track"})
	}

	o.transition(log, span, StateCompleted)
	log.Info().
		Str("profile", resolved.Name).
		Int("distance_m", res.Track.DistanceMeters).
		Int("waypoints", len(waypoints)).
		Msg("route computed")

	return &Result{
		Track:       res.Track,
		ProfileName: resolved.Name,
		Alternative: req.Alternative,
	}, nil
}

// persistRawTrack writes the engine's raw search state, best-effort.
func (o *Orchestrator) persistRawTrack(log zerolog.Logger, path string, data []byte) {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("raw track write failed, continuing")
	}
}

func (o *Orchestrator) transition(log zerolog.Logger, span trace.Span, s State) {
	span.AddEvent(string(s))
	log.Debug().Str("state", string(s)).Msg("request state")
}

func (o *Orchestrator) fail(log zerolog.Logger, span trace.Span, err error) error {
	span.SetStatus(codes.Error, err.Error())
	span.AddEvent(string(StateFailed))
	log.Debug().Err(err).Str("state", string(StateFailed)).Msg("request state")
	return err
}
