package route

import (
	"bufio"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/routekit/routekit/internal/geo"
)

// SnapshotWriter persists the recovery snapshot an external resume tool
// reads to continue an interrupted search. Writes are best-effort: a
// lost snapshot only degrades resumability, never the in-flight result.
type SnapshotWriter struct {
	logger zerolog.Logger
}

// NewSnapshotWriter creates a recovery snapshot writer.
func NewSnapshotWriter(logger zerolog.Logger) *SnapshotWriter {
	return &SnapshotWriter{logger: logger}
}

// Persist writes the snapshot, logging and discarding any failure.
func (w *SnapshotWriter) Persist(path, profileName, rawTrackPath string, waypoints, nogos []geo.Waypoint) {
	if err := writeSnapshot(path, profileName, rawTrackPath, waypoints, nogos); err != nil {
		w.logger.Warn().Err(err).Str("path", path).Msg("recovery snapshot write failed, continuing")
	}
}

// writeSnapshot serialises the snapshot as line-oriented UTF-8 text:
// profile name, raw-track path, then each point list prefixed by its
// count.
func writeSnapshot(path, profileName, rawTrackPath string, waypoints, nogos []geo.Waypoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(f)
	writeLine(bw, profileName)
	writeLine(bw, rawTrackPath)
	writeWaypointList(bw, waypoints)
	writeWaypointList(bw, nogos)

	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeWaypointList(bw *bufio.Writer, waypoints []geo.Waypoint) {
	writeLine(bw, strconv.Itoa(len(waypoints)))
	for _, wp := range waypoints {
		writeLine(bw, wp.String())
	}
}

func writeLine(bw *bufio.Writer, s string) {
	_, _ = bw.WriteString(s)
	_ = bw.WriteByte('\n')
}
