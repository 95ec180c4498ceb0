package geo

import (
	"fmt"
	"os"
	"path/filepath"
)

// SegmentExt is the file extension of routing data segment files.
const SegmentExt = ".rd5"

// Tile identifies one 5x5 degree routing data segment by the signed
// degrees of its south-west corner.
type Tile struct {
	Lon int // -180..175, multiple of 5
	Lat int // -90..85, multiple of 5
}

// TileFor returns the tile expected to cover the given coordinate.
// Coordinates exactly on a 5-degree grid line resolve to the lower band.
func TileFor(p Point) Tile {
	lonBand := int(EncodeLon(p.Lon)) / fixedPointScale
	latBand := int(EncodeLat(p.Lat)) / fixedPointScale
	return Tile{
		Lon: lonBand - 180 - lonBand%5,
		Lat: latBand - 90 - latBand%5,
	}
}

// String returns the compass-prefixed tile id, e.g. "W5_N50".
func (t Tile) String() string {
	ew, lon := "E", t.Lon
	if lon < 0 {
		ew, lon = "W", -lon
	}
	ns, lat := "N", t.Lat
	if lat < 0 {
		ns, lat = "S", -lat
	}
	return fmt.Sprintf("%s%d_%s%d", ew, lon, ns, lat)
}

// Filename returns the segment file name for this tile.
func (t Tile) Filename() string {
	return t.String() + SegmentExt
}

// TileExists reports whether the tile's segment file is present in the
// given segments directory. Segments are managed externally; this layer
// never creates or fetches them.
func TileExists(segmentsDir string, t Tile) bool {
	info, err := os.Stat(filepath.Join(segmentsDir, t.Filename()))
	return err == nil && !info.IsDir()
}
