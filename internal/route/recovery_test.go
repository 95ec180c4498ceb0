package route

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/routekit/routekit/internal/geo"
)

func TestSnapshotWriter_Persist(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "timeoutdata.txt")

	waypoints, err := buildWaypoints([]geo.Point{testFrom, testVia, testTo})
	if err != nil {
		t.Fatal(err)
	}
	nogos := buildNogos([]ExclusionZone{
		{Center: geo.Point{Lat: 54.54, Lon: -2.96}, Radius: 100},
	})

	w := NewSnapshotWriter(zerolog.Nop())
	w.Persist(path, "trekking", "/data/brouter/modes/trekking_rawtrack.dat", waypoints, nogos)

	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(body), "\n"), "\n")
	want := []string{
		"trekking",
		"/data/brouter/modes/trekking_rawtrack.dat",
		"3",
		waypoints[0].String(),
		waypoints[1].String(),
		waypoints[2].String(),
		"1",
		nogos[0].String(),
	}

	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), lines)
	}
	for i, line := range lines {
		if line != want[i] {
			t.Errorf("line %d = %q, want %q", i, line, want[i])
		}
	}
}

func TestSnapshotWriter_FailureIsSwallowed(t *testing.T) {
	w := NewSnapshotWriter(zerolog.Nop())

	// Unwritable path: the parent directory does not exist. Persist must
	// not panic or surface the failure.
	w.Persist(filepath.Join(t.TempDir(), "missing", "timeoutdata.txt"), "trekking", "raw", nil, nil)
}

func TestSnapshotWriter_OverwritesPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeoutdata.txt")
	w := NewSnapshotWriter(zerolog.Nop())

	waypoints, _ := buildWaypoints([]geo.Point{testFrom, testTo})
	w.Persist(path, "trekking", "a", waypoints, nil)
	w.Persist(path, "hiking", "b", waypoints, nil)

	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(body), "hiking\nb\n") {
		t.Errorf("snapshot not overwritten: %q", body)
	}
}
