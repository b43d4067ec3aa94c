package compact

import (
	"github.com/hip-hyena/geonamesdb/internal/geo"
)

// Match is the result of a nearest-place scan
type Match struct {
	Idx        int
	Lat        float64
	Lon        float64
	DistanceKm float64
	Score      float64
}

// Nearest scans every record and returns the one with the lowest
// population-weighted score: haversine distance divided by the place's
// effective catchment radius. A big city therefore wins over a nearer
// village when the point plausibly belongs to the city's catchment.
//
// The scan is a linear pass over the mapped array. n is bounded to major
// populated places, so no spatial index is kept.
func (ix *Index) Nearest(lon, lat float64) (Match, bool) {
	n := ix.Len()
	if n == 0 {
		return Match{}, false
	}

	best := Match{Idx: -1}
	for i := 0; i < n; i++ {
		recLat, recLon, radiusKm := ix.Record(i)
		dist := geo.Haversine(lat, lon, recLat, recLon)
		score := dist / radiusKm
		if best.Idx < 0 || score < best.Score {
			best = Match{
				Idx:        i,
				Lat:        recLat,
				Lon:        recLon,
				DistanceKm: dist,
				Score:      score,
			}
		}
	}
	return best, true
}
