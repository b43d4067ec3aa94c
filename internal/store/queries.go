package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hip-hyena/geonamesdb/internal/geonames"
)

// City is one relational place row
type City struct {
	ID          int64
	CountryCode string
	RegionID    *int64
	Idx         int
	FeatureCode string
	Population  int64
	Latitude    float64
	Longitude   float64
}

// CityMatch is a prefix-search hit with the display name chosen for the
// requested language
type CityMatch struct {
	City
	Name         string
	LanguageCode string
}

// CityByIdx loads the place row holding the given ordinal index.
// Returns nil when the index is unknown.
func (s *Store) CityByIdx(ctx context.Context, idx int) (*City, error) {
	var c City
	err := s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT id, country_code, region_id, idx, fcode, population, latitude, longitude
			FROM %s WHERE idx = $1`, s.Table("cities")),
		idx,
	).Scan(&c.ID, &c.CountryCode, &c.RegionID, &c.Idx, &c.FeatureCode, &c.Population, &c.Latitude, &c.Longitude)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// langPriority ranks a name's language for display: the preferred language
// wins over the default (empty) name, which wins over English. Ties keep
// the first match.
func langPriority(lang, preferred string) int {
	switch lang {
	case preferred:
		return 2
	case "":
		return 1
	case "en":
		return 0
	default:
		return -1
	}
}

// CitiesByNamePrefix finds places whose normalized name starts with the
// normalized prefix, ranked by population. Every aggregated name matches
// the prefix; the display name is chosen by language priority.
func (s *Store) CitiesByNamePrefix(ctx context.Context, prefix, preferredLang string, offset, limit int) ([]CityMatch, error) {
	rows, err := s.pool.Query(ctx,
		fmt.Sprintf(`SELECT c.id, c.country_code, c.region_id, c.idx, c.fcode, c.population, c.latitude, c.longitude,
				array_agg(n.name), array_agg(n.language_code)
			FROM %s n
			JOIN %s c ON c.id = n.id
			WHERE n.norm_name LIKE $1
			GROUP BY c.id
			ORDER BY c.population DESC
			OFFSET $2 LIMIT $3`,
			s.Table("cities_names"), s.Table("cities")),
		geonames.NormName(prefix)+"%", offset, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []CityMatch
	for rows.Next() {
		var m CityMatch
		var names, langs []string
		if err := rows.Scan(&m.ID, &m.CountryCode, &m.RegionID, &m.Idx, &m.FeatureCode,
			&m.Population, &m.Latitude, &m.Longitude, &names, &langs); err != nil {
			return nil, err
		}

		best := -2
		for i := range langs {
			if p := langPriority(langs[i], preferredLang); p > best {
				m.Name = names[i]
				m.LanguageCode = langs[i]
				best = p
			}
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// CityNames returns the preferred display name per place id, favoring the
// requested language over the default name
func (s *Store) CityNames(ctx context.Context, ids []int64, lang string) (map[int64]string, error) {
	return s.namesByID(ctx, s.Table("cities_names"), ids, lang)
}

// RegionNames returns the preferred display name per region id
func (s *Store) RegionNames(ctx context.Context, ids []int64, lang string) (map[int64]string, error) {
	return s.namesByID(ctx, s.Table("regions_names"), ids, lang)
}

func (s *Store) namesByID(ctx context.Context, table string, ids []int64, lang string) (map[int64]string, error) {
	names := make(map[int64]string)
	if len(ids) == 0 {
		return names, nil
	}

	rows, err := s.pool.Query(ctx,
		fmt.Sprintf(`SELECT id, language_code, name FROM %s
			WHERE id = ANY($1) AND (language_code = '' OR language_code = $2)`, table),
		ids, lang,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var langCode, name string
		if err := rows.Scan(&id, &langCode, &name); err != nil {
			return nil, err
		}
		if _, ok := names[id]; !ok || langCode == lang {
			names[id] = name
		}
	}
	return names, rows.Err()
}

// CountryNames returns the preferred display name per country code
func (s *Store) CountryNames(ctx context.Context, codes []string, lang string) (map[string]string, error) {
	names := make(map[string]string)
	if len(codes) == 0 {
		return names, nil
	}

	rows, err := s.pool.Query(ctx,
		fmt.Sprintf(`SELECT code, language_code, name FROM %s
			WHERE code = ANY($1) AND (language_code = '' OR language_code = $2)`, s.Table("countries_names")),
		codes, lang,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var code, langCode, name string
		if err := rows.Scan(&code, &langCode, &name); err != nil {
			return nil, err
		}
		if _, ok := names[code]; !ok || langCode == lang {
			names[code] = name
		}
	}
	return names, rows.Err()
}

// RegionCodeByID resolves a region's composite code
func (s *Store) RegionCodeByID(ctx context.Context, id int64) (string, error) {
	var code string
	err := s.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT code FROM %s WHERE id = $1", s.Table("regions")), id,
	).Scan(&code)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return code, err
}
