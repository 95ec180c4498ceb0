// Package storage manages the on-disk directory layout shared with the
// BRouter routing engine.
package storage

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Directory names under the base directory.
const (
	RootDirName     = "brouter"
	SegmentsDirName = "segments"
	ProfilesDirName = "profiles"
	ModesDirName    = "modes"

	// ProfileExt is the file extension of compiled routing profiles.
	ProfileExt = ".brf"

	// RecoveryFileName holds the resume snapshot for interrupted searches.
	RecoveryFileName = "timeoutdata.txt"
)

// Layout derives engine file paths from a base directory. The segments
// directory content is managed by the caller; everything else is created
// by Init.
type Layout struct {
	BaseDir string
}

// Root returns the engine root directory.
func (l Layout) Root() string {
	return filepath.Join(l.BaseDir, RootDirName)
}

// SegmentsDir returns the directory holding routing data segment files.
func (l Layout) SegmentsDir() string {
	return filepath.Join(l.Root(), SegmentsDirName)
}

// ProfilesDir returns the directory holding compiled profile files.
func (l Layout) ProfilesDir() string {
	return filepath.Join(l.Root(), ProfilesDirName)
}

// ModesDir returns the directory holding recovery and raw-track state.
func (l Layout) ModesDir() string {
	return filepath.Join(l.Root(), ModesDirName)
}

// ProfilePath returns the path of the compiled profile with the given name.
func (l Layout) ProfilePath(name string) string {
	return filepath.Join(l.ProfilesDir(), name+ProfileExt)
}

// RawTrackPath returns the raw-track cache file for a profile. The raw
// track seeds a faster retry of the same search.
func (l Layout) RawTrackPath(profileName string) string {
	return filepath.Join(l.ModesDir(), profileName+"_rawtrack.dat")
}

// RecoveryPath returns the recovery snapshot file path.
func (l Layout) RecoveryPath() string {
	return filepath.Join(l.ModesDir(), RecoveryFileName)
}

// Init creates the engine directory tree. It does not create the
// segments directory content; segment management is the caller's job.
func (l Layout) Init() error {
	for _, dir := range []string{l.Root(), l.SegmentsDir(), l.ProfilesDir(), l.ModesDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// ExtractProfiles unpacks a bundled profile archive into the profiles
// directory. Entries that already exist on disk are left untouched so
// user edits and timestamps survive re-initialisation.
func (l Layout) ExtractProfiles(archivePath string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("opening profile archive: %w", err)
	}
	defer r.Close()

	for _, entry := range r.File {
		if entry.FileInfo().IsDir() {
			continue
		}

		dst := filepath.Join(l.ProfilesDir(), filepath.Base(entry.Name))
		if _, err := os.Stat(dst); err == nil {
			continue
		}

		if err := extractEntry(entry, dst); err != nil {
			return fmt.Errorf("extracting %s: %w", entry.Name, err)
		}
	}
	return nil
}

func extractEntry(entry *zip.File, dst string) error {
	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
