package compact

import (
	"encoding/binary"
	"math"
)

const (
	// RecordSize is the byte width of one place record:
	// lat (uint16 LE) + lon (uint16 LE) + radius (uint8)
	RecordSize = 5

	// coordSteps is the number of fixed-point steps across each
	// coordinate range (16-bit words)
	coordSteps = 65535

	// RadiusScale and RadiusExponent define the population-derived
	// catchment radius byte: min(255, round(18 * (pop/1000)^0.26)).
	// Empirically tuned values; the assignment service shares the
	// exponent but uses its own, stricter leading constant.
	RadiusScale    = 18.0
	RadiusExponent = 0.26
)

func clampWord(v float64) uint16 {
	if v < 0 {
		return 0
	}
	if v > coordSteps {
		return coordSteps
	}
	return uint16(v)
}

// EncodeRadius maps a population to the catchment radius byte
func EncodeRadius(population int64) byte {
	r := math.Round(RadiusScale * math.Pow(float64(population)/1000, RadiusExponent))
	if r > 255 {
		return 255
	}
	if r < 0 {
		return 0
	}
	return byte(r)
}

// EncodeRecord packs a place's coordinates and population into a 5-byte
// fixed-point record. Latitude is remapped from [-90,90] and longitude
// from [-180,180] onto [0,65535].
func EncodeRecord(lat, lon float64, population int64) [RecordSize]byte {
	latWord := clampWord(math.Round((lat + 90.0) * coordSteps / 180))
	lonWord := clampWord(math.Round((lon + 180.0) * coordSteps / 360))

	var rec [RecordSize]byte
	binary.LittleEndian.PutUint16(rec[0:2], latWord)
	binary.LittleEndian.PutUint16(rec[2:4], lonWord)
	rec[4] = EncodeRadius(population)
	return rec
}

// DecodeRecord is the inverse of EncodeRecord. The radius byte decodes to
// an effective catchment radius in km as radius/10 + 0.1.
func DecodeRecord(rec []byte) (lat, lon, radiusKm float64) {
	latWord := binary.LittleEndian.Uint16(rec[0:2])
	lonWord := binary.LittleEndian.Uint16(rec[2:4])

	lat = float64(latWord)*180/coordSteps - 90.0
	lon = float64(lonWord)*360/coordSteps - 180.0
	radiusKm = float64(rec[4])/10 + 0.1
	return lat, lon, radiusKm
}
