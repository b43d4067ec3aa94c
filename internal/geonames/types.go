package geonames

import "strings"

// Country is one row of countryInfo.txt
type Country struct {
	ID   int64  // geoname id
	ISO2 string // lower-cased ISO-3166 alpha-2 code
	Name string
}

// Region is one row of admin1CodesASCII.txt. Code is the composite
// "<COUNTRY>.<ADMIN1>" join key places reference.
type Region struct {
	ID   int64
	Code string
	Name string
}

// Place is one row of a populated-places dump (cities15000 and friends)
type Place struct {
	ID          int64
	Name        string
	Latitude    float64
	Longitude   float64
	FeatureCode string
	CountryCode string // upper-cased, as shipped
	Admin1      string
	Population  int64
}

// RegionCode returns the composite admin1 join key for the place
func (p Place) RegionCode() string {
	return p.CountryCode + "." + p.Admin1
}

// AlternateName is one row of alternateNamesV2.txt. Transient: only the
// selection outcome of the two-pass resolver is ever persisted.
type AlternateName struct {
	ID         int64 // alternate name id, unique per row
	GeonameID  int64 // target entity
	Language   string
	Name       string
	Preferred  bool
	Short      bool
	Colloquial bool
	Historic   bool
}

// Feature codes excluded from the place index entirely: city subdivisions,
// abandoned and historical designations. Excluded places never receive an
// ordinal index and never reach the compact array.
var excludedFeatureCodes = map[string]bool{
	"PPLX": true,
	"PPLW": true,
	"PPLQ": true,
}

// Excluded reports whether a feature code is banned from the place index
func Excluded(featureCode string) bool {
	return excludedFeatureCodes[featureCode]
}

// ParseCountry reads a countryInfo.txt row
// (columns: iso2, iso3, iso-numeric, fips, name, ..., geonameid at 16)
func ParseCountry(r Row) Country {
	return Country{
		ID:   r.Int(16),
		ISO2: strings.ToLower(r.Field(0)),
		Name: r.Field(4),
	}
}

// ParseRegion reads an admin1CodesASCII.txt row
// (columns: code, name, ascii name, geonameid)
func ParseRegion(r Row) Region {
	return Region{
		ID:   r.Int(3),
		Code: r.Field(0),
		Name: r.Field(1),
	}
}

// ParsePlace reads a populated-places row (19-column geonames schema)
func ParsePlace(r Row) Place {
	return Place{
		ID:          r.Int(0),
		Name:        r.Field(1),
		Latitude:    r.Float(4),
		Longitude:   r.Float(5),
		FeatureCode: r.Field(7),
		CountryCode: r.Field(8),
		Admin1:      r.Field(10),
		Population:  r.Int(14),
	}
}

// ParseAlternateName reads an alternateNamesV2.txt row
// (columns: id, geonameid, language, name, 4 flags, validity period)
func ParseAlternateName(r Row) AlternateName {
	return AlternateName{
		ID:         r.Int(0),
		GeonameID:  r.Int(1),
		Language:   r.Field(2),
		Name:       r.Field(3),
		Preferred:  r.Flag(4),
		Short:      r.Flag(5),
		Colloquial: r.Flag(6),
		Historic:   r.Flag(7),
	}
}
