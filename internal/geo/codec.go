// Package geo provides the fixed-point coordinate encoding and the
// 5-degree tile addressing scheme used by BRouter segment files.
package geo

import (
	"math"
	"strconv"
)

// Fixed-point scale: one millionth of a degree.
const fixedPointScale = 1_000_000

// EncodeLon converts a WGS84 longitude in degrees to the engine's
// fixed-point representation: round((lon + 180) * 1e6), half rounded up.
// Domain checking is the caller's responsibility.
func EncodeLon(lon float64) int32 {
	return int32(math.Floor((lon+180.0)*fixedPointScale + 0.5))
}

// EncodeLat converts a WGS84 latitude in degrees to the engine's
// fixed-point representation: round((lat + 90) * 1e6), half rounded up.
func EncodeLat(lat float64) int32 {
	return int32(math.Floor((lat+90.0)*fixedPointScale + 0.5))
}

// Point is a geographic coordinate in WGS84 degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Waypoint is a named, fixed-point encoded point as passed to the
// routing engine. Nogo waypoints mark circular exclusion zones; a NaN
// NogoWeight means a hard exclusion rather than a penalty.
type Waypoint struct {
	Name       string
	ILon       int32
	ILat       int32
	IsNogo     bool
	NogoWeight float64
}

// NewWaypoint encodes a pass-through waypoint.
func NewWaypoint(name string, p Point) Waypoint {
	return Waypoint{
		Name: name,
		ILon: EncodeLon(p.Lon),
		ILat: EncodeLat(p.Lat),
	}
}

// NewNogo encodes an exclusion waypoint named after its radius in meters.
// The weight defaults to NaN, the engine's hard-exclusion sentinel.
func NewNogo(p Point, radius float64) Waypoint {
	return Waypoint{
		Name:       "nogo" + strconv.Itoa(int(radius)),
		ILon:       EncodeLon(p.Lon),
		ILat:       EncodeLat(p.Lat),
		IsNogo:     true,
		NogoWeight: math.NaN(),
	}
}

// String renders the waypoint in the line format consumed by the
// external recovery tooling: ilon,ilat,name.
func (w Waypoint) String() string {
	return strconv.FormatInt(int64(w.ILon), 10) + "," +
		strconv.FormatInt(int64(w.ILat), 10) + "," + w.Name
}
