// Package history records computed routes for operational review.
package history

import (
	"errors"
	"time"

	"github.com/routekit/routekit/internal/geo"
)

// ErrRecordNotFound indicates no record exists with the given id.
var ErrRecordNotFound = errors.New("route record not found")

// Status of a recorded compute attempt.
type Status string

// Record statuses.
const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Record is one computed (or failed) routing request.
type Record struct {
	ID              string
	ProfileName     string
	Origin          geo.Point
	Destination     geo.Point
	Waypoints       int
	DistanceMeters  int
	DurationSeconds int
	Status          Status
	ErrorKind       string
	CreatedAt       time.Time
}

// ListOptions control history listing.
type ListOptions struct {
	// Limit caps the page size. Defaults to 50, maximum 200.
	Limit int
	// Profile filters by resolved profile name when non-empty.
	Profile string
}

// ListResult is one page of records, newest first.
type ListResult struct {
	Records []Record
	HasMore bool
}
