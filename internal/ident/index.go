// Package ident maps external geoname identifiers to internal keys.
// The index is built once per run, before any alternate-name processing,
// so later passes can route a candidate by a single O(1) lookup.
package ident

// Kind tags which entity class an external id belongs to
type Kind int

const (
	KindUnknown Kind = iota
	KindCountry
	KindRegion
	KindPlace
)

func (k Kind) String() string {
	switch k {
	case KindCountry:
		return "country"
	case KindRegion:
		return "region"
	case KindPlace:
		return "place"
	default:
		return "unknown"
	}
}

// Index holds the identifier mappings built during the reference passes
type Index struct {
	kinds        map[int64]Kind
	countryCodes map[int64]string // geoname id -> ISO-2 code (lower-cased)
	regionIDs    map[string]int64 // composite code -> geoname id
}

// New creates an empty identifier index
func New() *Index {
	return &Index{
		kinds:        make(map[int64]Kind),
		countryCodes: make(map[int64]string),
		regionIDs:    make(map[string]int64),
	}
}

// AddCountry registers a country id with its ISO-2 code
func (ix *Index) AddCountry(id int64, iso2 string) {
	ix.kinds[id] = KindCountry
	ix.countryCodes[id] = iso2
}

// AddRegion registers a region id with its composite code
func (ix *Index) AddRegion(id int64, code string) {
	ix.kinds[id] = KindRegion
	ix.regionIDs[code] = id
}

// AddPlace registers a populated place id
func (ix *Index) AddPlace(id int64) {
	ix.kinds[id] = KindPlace
}

// Lookup returns the entity class of an external id
func (ix *Index) Lookup(id int64) Kind {
	return ix.kinds[id]
}

// CountryCode resolves a country id to its ISO-2 code
func (ix *Index) CountryCode(id int64) (string, bool) {
	code, ok := ix.countryCodes[id]
	return code, ok
}

// RegionByCode resolves a composite region code to its geoname id
func (ix *Index) RegionByCode(code string) (int64, bool) {
	id, ok := ix.regionIDs[code]
	return id, ok
}

// Counts returns the number of registered countries, regions and places
func (ix *Index) Counts() (countries, regions, places int) {
	for _, k := range ix.kinds {
		switch k {
		case KindCountry:
			countries++
		case KindRegion:
			regions++
		case KindPlace:
			places++
		}
	}
	return
}
