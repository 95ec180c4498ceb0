package geo

import (
	"math"
	"testing"
)

func TestEncodeLon(t *testing.T) {
	tests := []struct {
		name string
		lon  float64
		want int32
	}{
		{"greenwich", 0.0, 180000000},
		{"west", -2.950076, 177049924},
		{"east", 5.1214, 185121400},
		{"antimeridian west", -180.0, 0},
		{"antimeridian east", 180.0, 360000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncodeLon(tt.lon); got != tt.want {
				t.Errorf("EncodeLon(%v) = %d, want %d", tt.lon, got, tt.want)
			}
		})
	}
}

func TestEncodeLat(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		want int32
	}{
		{"equator", 0.0, 90000000},
		{"north", 54.543592, 144543592},
		{"south", -33.8688, 56131200},
		{"south pole", -90.0, 0},
		{"north pole", 90.0, 180000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncodeLat(tt.lat); got != tt.want {
				t.Errorf("EncodeLat(%v) = %d, want %d", tt.lat, got, tt.want)
			}
		})
	}
}

func TestEncode_Deterministic(t *testing.T) {
	p := Point{Lat: 54.530371, Lon: -3.004975}
	first := TileFor(p)
	for i := 0; i < 100; i++ {
		if got := TileFor(p); got != first {
			t.Fatalf("TileFor not deterministic: %v != %v", got, first)
		}
	}
}

func TestNewWaypoint(t *testing.T) {
	wp := NewWaypoint("from", Point{Lat: 54.543592, Lon: -2.950076})

	if wp.Name != "from" {
		t.Errorf("expected name %q, got %q", "from", wp.Name)
	}
	if wp.ILon != 177049924 {
		t.Errorf("expected ilon 177049924, got %d", wp.ILon)
	}
	if wp.ILat != 144543592 {
		t.Errorf("expected ilat 144543592, got %d", wp.ILat)
	}
	if wp.IsNogo {
		t.Error("pass-through waypoint must not be marked nogo")
	}
}

func TestNewNogo(t *testing.T) {
	wp := NewNogo(Point{Lat: 54.5, Lon: -2.9}, 250)

	if wp.Name != "nogo250" {
		t.Errorf("expected name %q, got %q", "nogo250", wp.Name)
	}
	if !wp.IsNogo {
		t.Error("expected nogo flag to be set")
	}
	if !math.IsNaN(wp.NogoWeight) {
		t.Errorf("expected NaN weight (hard exclusion), got %v", wp.NogoWeight)
	}
}

func TestWaypoint_String(t *testing.T) {
	wp := NewWaypoint("via1", Point{Lat: 54.530371, Lon: -3.004975})

	want := "176995025,144530371,via1"
	if got := wp.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
