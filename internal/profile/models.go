// Package profile resolves routing-cost profiles to compiled profile
// files on disk.
package profile

import "errors"

// Sentinel errors for profile resolution.
var (
	// ErrNoSelector indicates no profile source was supplied.
	ErrNoSelector = errors.New("no profile selected")
	// ErrAmbiguousSelector indicates more than one profile source was supplied.
	ErrAmbiguousSelector = errors.New("more than one profile source selected")
	// ErrUnknownBundled indicates the bundled catalog has no such entry.
	ErrUnknownBundled = errors.New("unknown bundled profile")
	// ErrCustomFileMissing indicates the caller-supplied profile file does not exist.
	ErrCustomFileMissing = errors.New("custom profile file does not exist")
)

// Bundled identifies a profile shipped with the distribution.
type Bundled string

// Bundled profile catalog. Each entry maps to a filename stem inside the
// packaged profile archive.
const (
	CarFast  Bundled = "car-fast"
	CarEco   Bundled = "car-eco"
	Trekking Bundled = "trekking"
	FastBike Bundled = "fastbike"
	Hiking   Bundled = "hiking"
)

// Catalog returns all bundled profiles.
func Catalog() []Bundled {
	return []Bundled{CarFast, CarEco, Trekking, FastBike, Hiking}
}

// IsBundled reports whether the key names a catalog entry.
func IsBundled(key Bundled) bool {
	switch key {
	case CarFast, CarEco, Trekking, FastBike, Hiking:
		return true
	}
	return false
}

// RemoteName is the fixed logical name under which remotely supplied
// profile bodies are cached.
const RemoteName = "remote"

// Selector picks exactly one profile source: a bundled catalog key, the
// path of a caller-supplied compiled profile, or an inline remote body.
type Selector struct {
	Bundled    Bundled
	CustomPath string
	RemoteBody string
}

// sourceCount returns how many sources the selector carries.
func (s Selector) sourceCount() int {
	n := 0
	if s.Bundled != "" {
		n++
	}
	if s.CustomPath != "" {
		n++
	}
	if s.RemoteBody != "" {
		n++
	}
	return n
}

// Validate enforces the exactly-one-source invariant.
func (s Selector) Validate() error {
	switch n := s.sourceCount(); {
	case n == 0:
		return ErrNoSelector
	case n > 1:
		return ErrAmbiguousSelector
	}
	if s.Bundled != "" && !IsBundled(s.Bundled) {
		return ErrUnknownBundled
	}
	return nil
}

// Resolved is the outcome of profile resolution for one request.
type Resolved struct {
	// Name is the short logical profile name, used to key per-profile
	// state such as the raw-track cache.
	Name string
	// Path is the absolute path of the compiled profile file.
	Path string
	// Rewritten reports whether a remote profile cache file was written
	// this invocation. False when the cached copy already matched.
	Rewritten bool
}

// Error wraps a failure while resolving or caching a profile.
type Error struct {
	Name    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
