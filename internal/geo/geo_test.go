package geo

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKm                 float64
		tolKm                  float64
	}{
		{
			name: "zero distance",
			lat1: 51.5074, lon1: -0.1278,
			lat2: 51.5074, lon2: -0.1278,
			wantKm: 0, tolKm: 0.001,
		},
		{
			name: "London to Paris",
			lat1: 51.5074, lon1: -0.1278,
			lat2: 48.8566, lon2: 2.3522,
			wantKm: 343.5, tolKm: 1.0,
		},
		{
			name: "one latitude degree at equator",
			lat1: 0, lon1: 0,
			lat2: 1, lon2: 0,
			wantKm: 111.19, tolKm: 0.1,
		},
		{
			name: "antimeridian crossing",
			lat1: 0, lon1: 179.9,
			lat2: 0, lon2: -179.9,
			wantKm: 22.24, tolKm: 0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.wantKm) > tt.tolKm {
				t.Errorf("Haversine() = %f km, want %f ± %f", got, tt.wantKm, tt.tolKm)
			}
		})
	}
}

func TestSnapToGridIdempotent(t *testing.T) {
	points := []struct {
		lon, lat float64
	}{
		{-0.1278, 51.5074},
		{37.6173, 55.7558},
		{151.2093, -33.8688},
		{-74.0060, 40.7128},
		{0.00001, 0.00001},
		{-179.99, -67.2},
	}
	steps := []float64{1, 2, 5}

	for _, p := range points {
		for _, step := range steps {
			lon1, lat1 := SnapToGrid(p.lon, p.lat, step)
			lon2, lat2 := SnapToGrid(lon1, lat1, step)
			if lon1 != lon2 || lat1 != lat2 {
				t.Errorf("SnapToGrid(%f, %f, %f) not idempotent: first (%f, %f), second (%f, %f)",
					p.lon, p.lat, step, lon1, lat1, lon2, lat2)
			}
		}
	}
}

func TestSnapToGridPrecision(t *testing.T) {
	lon, lat := SnapToGrid(-0.1278, 51.5074, 1)

	// Snapped coordinates carry at most 5 decimal places
	if lon != round5(lon) || lat != round5(lat) {
		t.Errorf("snapped point (%v, %v) not rounded to 5 decimals", lon, lat)
	}

	// The snapped point stays within one cell of the input
	if math.Abs(lat-51.5074) > 1.0/latDegreeKm {
		t.Errorf("snapped latitude %f too far from input", lat)
	}
	if math.Abs(lon+0.1278) > 0.02 {
		t.Errorf("snapped longitude %f too far from input", lon)
	}
}

func TestSnapToGridMovesPoint(t *testing.T) {
	// A raw GPS-precision point should not survive snapping unchanged
	lon, lat := SnapToGrid(-0.12783456, 51.50741234, 1)
	if lon == -0.12783456 && lat == 51.50741234 {
		t.Error("expected snapping to quantize the point")
	}
}
