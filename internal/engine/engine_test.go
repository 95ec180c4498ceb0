package engine_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routekit/routekit/internal/engine"
	"github.com/routekit/routekit/internal/geo"
	"github.com/routekit/routekit/internal/route"
)

const trackJSON = `{
  "features": [
    {
      "properties": {
        "track-length": "18500",
        "total-time": "4100"
      },
      "geometry": {
        "coordinates": [
          [-2.950076, 54.543592],
          [-2.966995, 54.542671]
        ]
      }
    }
  ]
}`

// writeScript creates an executable shell script acting as the engine binary.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.sh")
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func newExec(t *testing.T, script string) *engine.Exec {
	t.Helper()
	return engine.NewExec(engine.ExecConfig{
		Binary: writeScript(t, script),
		Logger: zerolog.New(io.Discard),
	})
}

func testRequest() route.EngineRequest {
	return route.EngineRequest{
		SegmentsDir: "/data/brouter/segments",
		ProfilePath: "/data/brouter/profiles/trekking.brf",
		Waypoints: []geo.Waypoint{
			geo.NewWaypoint("from", geo.Point{Lat: 54.543592, Lon: -2.950076}),
			geo.NewWaypoint("to", geo.Point{Lat: 54.542671, Lon: -2.966995}),
		},
		Quiet: true,
	}
}

func TestExec_Run(t *testing.T) {
	e := newExec(t, "cat <<'EOF'\n"+trackJSON+"\nEOF")

	result, err := e.Run(context.Background(), testRequest())
	require.NoError(t, err)
	require.NotNil(t, result.Track)

	assert.Equal(t, 18500, result.Track.DistanceMeters)
	assert.Equal(t, 4100, result.Track.DurationSeconds)
	require.Len(t, result.Track.Points, 2)
	assert.InDelta(t, 54.543592, result.Track.Points[0].Lat, 1e-6)
	assert.InDelta(t, -2.950076, result.Track.Points[0].Lon, 1e-6)
}

func TestExec_Run_EngineError(t *testing.T) {
	e := newExec(t, "echo 'operation killed by thread-priority-watchdog' >&2\nexit 1")

	result, err := e.Run(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Nil(t, result.Track)
	assert.Equal(t, "operation killed by thread-priority-watchdog", result.ErrorMessage)
}

func TestExec_Run_SilentFailure(t *testing.T) {
	e := newExec(t, "exit 3")

	_, err := e.Run(context.Background(), testRequest())
	require.Error(t, err)
}

func TestExec_Run_MalformedOutput(t *testing.T) {
	e := newExec(t, "echo 'not json'")

	_, err := e.Run(context.Background(), testRequest())
	require.Error(t, err)
}

func TestExec_Run_EmptyFeatureCollection(t *testing.T) {
	e := newExec(t, `echo '{"features":[]}'`)

	result, err := e.Run(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Nil(t, result.Track)
}

func TestExec_Name(t *testing.T) {
	e := engine.NewExec(engine.ExecConfig{Logger: zerolog.New(io.Discard)})
	assert.Equal(t, "brouter-exec", e.Name())
}
