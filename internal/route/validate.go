package route

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/routekit/routekit/internal/geo"
	"github.com/routekit/routekit/internal/profile"
	"github.com/routekit/routekit/internal/storage"
)

// Validator checks the structural preconditions of a request before any
// engine work. Checks run in a fixed order; the first failure wins.
type Validator struct {
	logger zerolog.Logger
}

// NewValidator creates a request validator.
func NewValidator(logger zerolog.Logger) *Validator {
	return &Validator{logger: logger}
}

// Validate runs the ordered precondition checks and marks the request
// validated on success. A request already marked valid passes
// immediately.
func (v *Validator) Validate(req *Request) error {
	if req.validated {
		return nil
	}

	if len(req.Points) < 2 {
		return ErrTooFewPoints
	}

	if err := req.Profile.Validate(); err != nil {
		return err
	}

	if path := req.Profile.CustomPath; path != "" {
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			return &profile.Error{
				Message: "custom profile " + path,
				Err:     profile.ErrCustomFileMissing,
			}
		}
	}

	if req.BaseDir == "" {
		return ErrNoBaseDir
	}

	layout := storage.Layout{BaseDir: req.BaseDir}
	if !dirExists(layout.SegmentsDir()) {
		return ErrSegmentsDirMissing
	}

	for _, p := range req.Points {
		tile := geo.TileFor(p)
		if !geo.TileExists(layout.SegmentsDir(), tile) {
			v.logger.Debug().
				Stringer("tile", tile).
				Float64("lat", p.Lat).
				Float64("lon", p.Lon).
				Msg("segment file missing")
			return &TileError{Point: p, Tile: tile}
		}
	}

	if !dirExists(layout.ProfilesDir()) {
		return ErrProfilesDirMissing
	}

	req.validated = true
	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
