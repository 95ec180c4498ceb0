// Package engine adapts an external BRouter-compatible routing binary
// to the route.Engine interface. The binary receives the segment
// directory, profile file and waypoint list as arguments and prints the
// computed track as GeoJSON on stdout.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/routekit/routekit/internal/geo"
	"github.com/routekit/routekit/internal/route"
)

// Exec invokes an external routing engine process per request.
type Exec struct {
	binary string
	logger zerolog.Logger
}

// ExecConfig holds configuration for the exec engine.
type ExecConfig struct {
	// Binary is the path of the routing engine executable.
	Binary string

	// Logger for engine invocations.
	Logger zerolog.Logger
}

// NewExec creates an exec engine adapter.
func NewExec(cfg ExecConfig) *Exec {
	return &Exec{binary: cfg.Binary, logger: cfg.Logger}
}

// Name returns the engine identifier.
func (e *Exec) Name() string {
	return "brouter-exec"
}

// Run executes the engine binary and parses its track output. A non-zero
// exit with output on stderr is reported as an engine error message, not
// a transport failure.
func (e *Exec) Run(ctx context.Context, req route.EngineRequest) (*route.EngineResult, error) {
	if req.MaxTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.MaxTime)
		defer cancel()
	}

	args := buildArgs(req)

	cmd := exec.CommandContext(ctx, e.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.logger.Debug().
		Str("binary", e.binary).
		Int("args", len(args)).
		Msg("invoking routing engine")

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("engine run: %w", ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("engine run: %w", err)
		}
		return &route.EngineResult{ErrorMessage: msg}, nil
	}

	track, err := parseTrack(stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("parsing engine output: %w", err)
	}

	return &route.EngineResult{Track: track}, nil
}

// buildArgs assembles the engine command line.
func buildArgs(req route.EngineRequest) []string {
	args := []string{
		"--segments", req.SegmentsDir,
		"--profile", req.ProfilePath,
		"--lonlats", joinWaypoints(req.Waypoints),
		"--turn-instructions", strconv.Itoa(int(req.TurnInstructions)),
		"--alternativeidx", strconv.Itoa(req.Alternative),
		"--format", "geojson",
	}
	if len(req.Nogos) > 0 {
		args = append(args, "--nogos", joinNogos(req.Nogos))
	}
	if req.StartDirection != 0 {
		args = append(args, "--direction", strconv.Itoa(req.StartDirection))
	}
	if req.RawTrackPath != "" {
		args = append(args, "--rawtrack", req.RawTrackPath)
	}
	if req.Quiet {
		args = append(args, "--quiet")
	}
	return args
}

// joinWaypoints formats waypoints as lon,lat pairs separated by pipes,
// in degree units.
func joinWaypoints(wps []geo.Waypoint) string {
	parts := make([]string, len(wps))
	for i, wp := range wps {
		parts[i] = formatCoord(wp.ILon, wp.ILat)
	}
	return strings.Join(parts, "|")
}

// joinNogos formats nogo zones as lon,lat,radius triples.
func joinNogos(nogos []geo.Waypoint) string {
	parts := make([]string, len(nogos))
	for i, n := range nogos {
		radius := strings.TrimPrefix(n.Name, "nogo")
		parts[i] = formatCoord(n.ILon, n.ILat) + "," + radius
	}
	return strings.Join(parts, "|")
}

func formatCoord(ilon, ilat int32) string {
	lon := float64(ilon)/1e6 - 180.0
	lat := float64(ilat)/1e6 - 90.0
	return strconv.FormatFloat(lon, 'f', 6, 64) + "," + strconv.FormatFloat(lat, 'f', 6, 64)
}

// trackFeatureCollection mirrors the engine's GeoJSON output shape.
type trackFeatureCollection struct {
	Features []struct {
		Properties struct {
			TrackLength string `json:"track-length"`
			TotalTime   string `json:"total-time"`
			Message     string `json:"message"`
		} `json:"properties"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// parseTrack decodes the engine's GeoJSON feature collection into a track.
func parseTrack(data []byte) (*route.Track, error) {
	var fc trackFeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, err
	}
	if len(fc.Features) == 0 {
		return nil, nil
	}

	feature := fc.Features[0]

	points := make([]geo.Point, 0, len(feature.Geometry.Coordinates))
	for _, c := range feature.Geometry.Coordinates {
		if len(c) < 2 {
			return nil, fmt.Errorf("coordinate with %d components", len(c))
		}
		points = append(points, geo.Point{Lon: c[0], Lat: c[1]})
	}

	distance, _ := strconv.Atoi(feature.Properties.TrackLength)
	duration, _ := strconv.Atoi(feature.Properties.TotalTime)

	return &route.Track{
		Points:          points,
		DistanceMeters:  distance,
		DurationSeconds: duration,
	}, nil
}
