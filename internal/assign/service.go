package assign

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/hip-hyena/geonamesdb/internal/compact"
	"github.com/hip-hyena/geonamesdb/internal/geo"
	"github.com/hip-hyena/geonamesdb/internal/store"
)

// catchmentScale converts a population into the widest distance, in km, at
// which a point still belongs to the place rather than only its region
const catchmentScale = 1.5

// Result describes where a point landed. PlaceID is nil when the nearest
// place was too far and the point fell back to its region or country.
type Result struct {
	CountryCode string
	RegionID    *int64
	PlaceID     *int64
	Label       string
}

// placeStore is the slice of the relational store the service needs
type placeStore interface {
	CityByIdx(ctx context.Context, idx int) (*store.City, error)
	CityNames(ctx context.Context, ids []int64, lang string) (map[int64]string, error)
	RegionNames(ctx context.Context, ids []int64, lang string) (map[int64]string, error)
	CountryNames(ctx context.Context, codes []string, lang string) (map[string]string, error)
}

// Service answers point-to-place questions using the compact coordinate
// array for candidate lookup and the relational store for detail.
type Service struct {
	store placeStore
	index *compact.Index
}

func New(st *store.Store, ix *compact.Index) *Service {
	return &Service{store: st, index: ix}
}

// MaxDistanceKm is how far from a place's coordinates a point may lie and
// still be assigned to it. Bigger places reach further.
func MaxDistanceKm(population int64) float64 {
	return catchmentScale * math.Pow(float64(population)/1000, compact.RadiusExponent)
}

// withinCatchment decides whether a point at the given distance belongs to
// a place of the given population
func withinCatchment(distanceKm float64, population int64) bool {
	return distanceKm <= MaxDistanceKm(population)
}

// Assign resolves an ordinal array index to a labeled location. The place
// is kept when the point lies within its catchment; otherwise the label
// falls back to the place's region, or its country when no region is known.
func (s *Service) Assign(ctx context.Context, idx int, lon, lat float64, lang string) (*Result, error) {
	city, err := s.store.CityByIdx(ctx, idx)
	if err != nil {
		return nil, err
	}
	if city == nil {
		return nil, fmt.Errorf("no place stored at index %d", idx)
	}

	res := &Result{CountryCode: city.CountryCode, RegionID: city.RegionID}
	dist := geo.Haversine(city.Latitude, city.Longitude, lat, lon)

	if withinCatchment(dist, city.Population) {
		res.PlaceID = &city.ID
		names, err := s.store.CityNames(ctx, []int64{city.ID}, lang)
		if err != nil {
			return nil, err
		}
		res.Label = names[city.ID]
		return res, nil
	}

	if city.RegionID != nil {
		names, err := s.store.RegionNames(ctx, []int64{*city.RegionID}, lang)
		if err != nil {
			return nil, err
		}
		res.Label = names[*city.RegionID]
	}
	if res.Label == "" {
		names, err := s.store.CountryNames(ctx, []string{city.CountryCode}, lang)
		if err != nil {
			return nil, err
		}
		res.Label = names[city.CountryCode]
	}
	if res.Label == "" {
		res.Label = strings.ToUpper(city.CountryCode)
	}
	return res, nil
}

// ResolvePoint finds the nearest place to a point and assigns the point
// to it or its containing region
func (s *Service) ResolvePoint(ctx context.Context, lon, lat float64, lang string) (*Result, error) {
	m, ok := s.index.Nearest(lon, lat)
	if !ok {
		return nil, fmt.Errorf("coordinate array is empty")
	}
	return s.Assign(ctx, m.Idx, lon, lat, lang)
}
