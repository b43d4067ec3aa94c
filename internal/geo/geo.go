package geo

import "math"

// Earth model constants
const (
	// EarthRadiusKm is the mean Earth radius used by the haversine distance
	EarthRadiusKm = 6371.0

	// Length of one latitudinal degree in km (grid quantization)
	latDegreeKm = 111.111

	// WGS84 ellipsoid radii in meters, used to compute the local length
	// of a longitudinal degree at a given latitude
	equatorialRadiusM = 6378137.0
	polarRadiusM      = 6356752.3
)

// DefaultGridStepKm is the default cell size for SnapToGrid
const DefaultGridStepKm = 1.0

func deg2rad(deg float64) float64 {
	return deg * (math.Pi / 180)
}

// Haversine returns the great-circle distance in km between two points
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := deg2rad(lat2 - lat1)
	dLon := deg2rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(lat1))*math.Cos(deg2rad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// round5 rounds to 5 decimal places (~1 m of coordinate precision)
func round5(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}

// SnapToGrid quantizes a point to the center of a geodesic cell of stepKm
// kilometers. Latitude is quantized with a fixed degrees-per-km factor;
// longitude uses the local degree length at the snapped latitude, computed
// from the ellipsoidal radius of curvature, so cells keep roughly the same
// physical size at any latitude. Snapping an already-snapped point with the
// same step returns the same point.
func SnapToGrid(lon, lat, stepKm float64) (float64, float64) {
	lat = (math.Floor(lat*latDegreeKm/stepKm) + 0.5) * stepKm / latDegreeKm
	lat = round5(lat)

	latRad := deg2rad(lat)
	cos := math.Cos(latRad)
	sin := math.Sin(latRad)
	t1 := equatorialRadiusM * equatorialRadiusM * cos
	t2 := polarRadiusM * polarRadiusM * sin
	t3 := equatorialRadiusM * cos
	t4 := polarRadiusM * sin
	lonDegreeKm := 2 * math.Pi * math.Sqrt((t1*t1+t2*t2)/(t3*t3+t4*t4)) / 360 / 1000

	lon = (math.Floor(lon*lonDegreeKm/stepKm) + 0.5) * stepKm / lonDegreeKm
	lon = round5(lon)

	return lon, lat
}
