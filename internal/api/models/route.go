// Package models provides request and response models for the RouteKit API.
package models

import "time"

// Point represents a geographic coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Nogo represents a circular exclusion zone.
type Nogo struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
}

// RouteComputeRequest is the body of POST /v1/routes:compute.
// Exactly one of Profile, ProfilePath and RemoteProfile must be set.
type RouteComputeRequest struct {
	// Points is the ordered point sequence: origin, via-points, destination.
	Points []Point `json:"points"`

	// Nogos are circular regions the route must avoid.
	Nogos []Nogo `json:"nogos,omitempty"`

	// Profile selects a bundled profile by catalog key.
	Profile string `json:"profile,omitempty"`

	// ProfilePath selects a caller-supplied compiled profile file.
	ProfilePath string `json:"profilePath,omitempty"`

	// RemoteProfile supplies an inline profile body.
	RemoteProfile string `json:"remoteProfile,omitempty"`

	// TurnInstructions selects the turn-instruction format (0-5).
	TurnInstructions int `json:"turnInstructions,omitempty"`

	// StartDirection is the initial heading hint in degrees.
	StartDirection int `json:"startDirection,omitempty"`

	// MaxTimeSeconds caps the search wall-clock budget.
	MaxTimeSeconds int `json:"maxTimeSeconds,omitempty"`

	// Alternative selects an alternate-route variant.
	Alternative int `json:"alternative,omitempty"`
}

// RouteComputeResponse is the success payload of POST /v1/routes:compute.
type RouteComputeResponse struct {
	Profile          string    `json:"profile"`
	Alternative      int       `json:"alternative"`
	DistanceMeters   int       `json:"distanceMeters"`
	DurationSeconds  int       `json:"durationSeconds"`
	GeometryPolyline string    `json:"geometryPolyline"`
	GeneratedAt      time.Time `json:"generatedAt"`
}

// ProfileInfo describes one bundled profile.
type ProfileInfo struct {
	Key string `json:"key"`
}

// ProfilesResponse lists the bundled profile catalog.
type ProfilesResponse struct {
	Profiles []ProfileInfo `json:"profiles"`
}

// RouteRecord is one recorded compute attempt.
type RouteRecord struct {
	ID              string    `json:"id"`
	Profile         string    `json:"profile"`
	Origin          Point     `json:"origin"`
	Destination     Point     `json:"destination"`
	Waypoints       int       `json:"waypoints"`
	DistanceMeters  int       `json:"distanceMeters"`
	DurationSeconds int       `json:"durationSeconds"`
	Status          string    `json:"status"`
	ErrorKind       string    `json:"errorKind,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// RouteRecordsResponse is a page of recorded routes.
type RouteRecordsResponse struct {
	Records []RouteRecord `json:"records"`
	HasMore bool          `json:"hasMore"`
}

// Health is the ops health payload.
type Health struct {
	Status  string                 `json:"status"`
	Time    time.Time              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Health status values.
const (
	HealthStatusOK       = "OK"
	HealthStatusDegraded = "DEGRADED"
)
