package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hip-hyena/geonamesdb/internal/compact"
	"github.com/hip-hyena/geonamesdb/internal/config"
	"github.com/hip-hyena/geonamesdb/internal/geonames"
	"github.com/hip-hyena/geonamesdb/internal/ident"
	"github.com/hip-hyena/geonamesdb/internal/logger"
	"github.com/hip-hyena/geonamesdb/internal/store"
)

const alternateNamesMember = "alternateNamesV2.txt"

// Stats summarizes one completed import
type Stats struct {
	Countries      int
	Regions        int
	Places         int
	NameCandidates int
	NamesWritten   int
}

// Pipeline drives a full import: reference tables, populated places with
// the compact coordinate array, then two streaming passes over the
// alternate names dump.
type Pipeline struct {
	cfg   *config.Config
	store *store.Store
	ids   *ident.Index
	log   *zap.Logger
}

func New(cfg *config.Config, st *store.Store) *Pipeline {
	return &Pipeline{
		cfg:   cfg,
		store: st,
		ids:   ident.New(),
		log:   logger.Get(),
	}
}

// Run performs a full truncate-and-reload import from the dump files in
// the configured dumps directory
func (p *Pipeline) Run(ctx context.Context) (*Stats, error) {
	start := time.Now()
	stats := &Stats{}

	if err := p.store.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	if err := p.store.TruncateAll(ctx); err != nil {
		return nil, err
	}

	if err := p.loadCountries(ctx, stats); err != nil {
		return nil, fmt.Errorf("loading countries: %w", err)
	}
	if err := p.loadRegions(ctx, stats); err != nil {
		return nil, fmt.Errorf("loading regions: %w", err)
	}
	if err := p.loadPlaces(ctx, stats); err != nil {
		return nil, fmt.Errorf("loading places: %w", err)
	}

	pref, err := p.collectPreferredNames(ctx, stats)
	if err != nil {
		return nil, fmt.Errorf("resolving preferred names: %w", err)
	}
	if err := p.writeNames(ctx, pref, stats); err != nil {
		return nil, fmt.Errorf("writing names: %w", err)
	}

	p.log.Info("Import complete",
		zap.Int("countries", stats.Countries),
		zap.Int("regions", stats.Regions),
		zap.Int("places", stats.Places),
		zap.Int("names", stats.NamesWritten),
		zap.Duration("elapsed", time.Since(start)))
	return stats, nil
}

func (p *Pipeline) loadCountries(ctx context.Context, stats *Stats) error {
	start := time.Now()
	src, err := geonames.OpenFile(p.cfg.DumpPath("countryInfo.txt"), geonames.SkipComments())
	if err != nil {
		return err
	}
	defer src.Close()

	for src.Scan() {
		c := geonames.ParseCountry(src.Row())
		if c.ID == 0 || c.ISO2 == "" {
			continue
		}
		p.ids.AddCountry(c.ID, c.ISO2)
		stats.Countries++
	}
	if err := src.Err(); err != nil {
		return err
	}

	p.log.Info("Loaded countries",
		zap.Int("count", stats.Countries),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (p *Pipeline) loadRegions(ctx context.Context, stats *Stats) error {
	start := time.Now()
	src, err := geonames.OpenFile(p.cfg.DumpPath("admin1CodesASCII.txt"))
	if err != nil {
		return err
	}
	defer src.Close()

	bw := store.NewBulkWriter(p.store.Pool(), p.store.Table("regions"),
		[]string{"id", "code"}, store.Strict, p.cfg.BatchSize)

	for src.Scan() {
		r := geonames.ParseRegion(src.Row())
		if r.ID == 0 || r.Code == "" {
			continue
		}
		if err := bw.Append(ctx, r.ID, r.Code); err != nil {
			return err
		}
		p.ids.AddRegion(r.ID, r.Code)
		stats.Regions++
	}
	if err := src.Err(); err != nil {
		return err
	}
	if err := bw.Flush(ctx); err != nil {
		return err
	}

	p.log.Info("Loaded regions",
		zap.Int("count", stats.Regions),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (p *Pipeline) loadPlaces(ctx context.Context, stats *Stats) error {
	start := time.Now()
	src, err := geonames.OpenZip(p.cfg.DumpPath(p.cfg.Source+".zip"), p.cfg.Source+".txt")
	if err != nil {
		return err
	}
	defer src.Close()

	cw, err := compact.NewWriter(p.cfg.CompactFile)
	if err != nil {
		return err
	}
	defer cw.Close()

	bw := store.NewBulkWriter(p.store.Pool(), p.store.Table("cities"),
		[]string{"id", "country_code", "region_id", "idx", "fcode", "population", "latitude", "longitude"},
		store.Strict, p.cfg.BatchSize)

	for src.Scan() {
		pl := geonames.ParsePlace(src.Row())
		if pl.ID == 0 || geonames.Excluded(pl.FeatureCode) {
			continue
		}

		idx, err := cw.Append(pl.Latitude, pl.Longitude, pl.Population)
		if err != nil {
			return err
		}

		var regionID *int64
		if id, ok := p.ids.RegionByCode(pl.RegionCode()); ok {
			regionID = &id
		}
		if err := bw.Append(ctx, pl.ID, strings.ToLower(pl.CountryCode), regionID, idx,
			pl.FeatureCode, pl.Population, pl.Latitude, pl.Longitude); err != nil {
			return err
		}
		p.ids.AddPlace(pl.ID)
		stats.Places++
	}
	if err := src.Err(); err != nil {
		return err
	}
	if err := bw.Flush(ctx); err != nil {
		return err
	}
	// Only expose the coordinate array once its rows are in the database
	if err := cw.Commit(); err != nil {
		return err
	}

	p.log.Info("Loaded places",
		zap.Int("count", stats.Places),
		zap.String("coords", p.cfg.CompactFile),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// collectPreferredNames streams the whole alternate names dump once and
// keeps only the winning row id per (geoname, language) pair
func (p *Pipeline) collectPreferredNames(ctx context.Context, stats *Stats) (*PreferredNames, error) {
	start := time.Now()
	src, err := geonames.OpenZip(p.cfg.DumpPath("alternateNamesV2.zip"), alternateNamesMember)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	pref := NewPreferredNames()
	count := 0
	for src.Scan() {
		pref.Consider(geonames.ParseAlternateName(src.Row()))
		count++
		if count%1000000 == 0 {
			p.log.Debug("Scanning alternate names", zap.Int("rows", count))
		}
	}
	if err := src.Err(); err != nil {
		return nil, err
	}

	stats.NameCandidates = count
	p.log.Info("Resolved preferred names",
		zap.Int("candidates", count),
		zap.Int("pairs", pref.Len()),
		zap.Duration("elapsed", time.Since(start)))
	return pref, nil
}

// fixRegionName repairs the odd capitalization some region names carry
func fixRegionName(name string) string {
	return strings.ReplaceAll(name, "Область", "область")
}

// writeNames re-streams the alternate names dump and materializes the
// winning rows into the three name tables, routed by what the geoname
// id identifies
func (p *Pipeline) writeNames(ctx context.Context, pref *PreferredNames, stats *Stats) error {
	start := time.Now()
	src, err := geonames.OpenZip(p.cfg.DumpPath("alternateNamesV2.zip"), alternateNamesMember)
	if err != nil {
		return err
	}
	defer src.Close()

	cityNames := store.NewBulkWriter(p.store.Pool(), p.store.Table("cities_names"),
		[]string{"id", "language_code", "name", "norm_name"}, store.Ignore, p.cfg.BatchSize)
	regionNames := store.NewBulkWriter(p.store.Pool(), p.store.Table("regions_names"),
		[]string{"id", "language_code", "name"}, store.Ignore, p.cfg.BatchSize)
	countryNames := store.NewBulkWriter(p.store.Pool(), p.store.Table("countries_names"),
		[]string{"code", "language_code", "name"}, store.Ignore, p.cfg.BatchSize)

	for src.Scan() {
		c := geonames.ParseAlternateName(src.Row())
		if !pref.Selected(c) {
			continue
		}

		switch p.ids.Lookup(c.GeonameID) {
		case ident.KindPlace:
			err = cityNames.Append(ctx, c.GeonameID, c.Language, c.Name, geonames.NormName(c.Name))
		case ident.KindRegion:
			err = regionNames.Append(ctx, c.GeonameID, c.Language, fixRegionName(c.Name))
		case ident.KindCountry:
			code, _ := p.ids.CountryCode(c.GeonameID)
			err = countryNames.Append(ctx, code, c.Language, c.Name)
		default:
			continue
		}
		if err != nil {
			return err
		}
		stats.NamesWritten++
	}
	if err := src.Err(); err != nil {
		return err
	}

	for _, bw := range []*store.BulkWriter{cityNames, regionNames, countryNames} {
		if err := bw.Flush(ctx); err != nil {
			return err
		}
	}

	p.log.Info("Wrote localized names",
		zap.Int("count", stats.NamesWritten),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
