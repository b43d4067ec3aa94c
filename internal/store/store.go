package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/hip-hyena/geonamesdb/internal/config"
	"github.com/hip-hyena/geonamesdb/internal/logger"
)

// Store is the relational lookup store over the geonames tables
type Store struct {
	cfg  *config.Config
	pool *pgxpool.Pool
}

// New connects to PostgreSQL
func New(ctx context.Context, cfg *config.Config) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	return &Store{cfg: cfg, pool: pool}, nil
}

// Close closes the connection pool
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Pool exposes the underlying pool for bulk writers
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Table returns a schema-qualified table name
func (s *Store) Table(name string) string {
	return fmt.Sprintf("%s.%s", s.cfg.DBSchema, name)
}

// EnsureSchema creates the geonames tables and indexes if absent
func (s *Store) EnsureSchema(ctx context.Context) error {
	log := logger.Get()

	if s.cfg.DBSchema != "public" {
		if _, err := s.pool.Exec(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", s.cfg.DBSchema)); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS %[1]s.cities (
			id BIGINT PRIMARY KEY,
			country_code TEXT NOT NULL,
			region_id BIGINT,
			idx INTEGER NOT NULL,
			fcode TEXT NOT NULL,
			population BIGINT NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS cities_idx_key ON %[1]s.cities (idx)`,
		`CREATE TABLE IF NOT EXISTS %[1]s.regions (
			id BIGINT PRIMARY KEY,
			code TEXT NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS regions_code_key ON %[1]s.regions (code)`,
		`CREATE TABLE IF NOT EXISTS %[1]s.countries_names (
			code TEXT NOT NULL,
			language_code TEXT NOT NULL,
			name TEXT NOT NULL,
			PRIMARY KEY (code, language_code)
		)`,
		`CREATE TABLE IF NOT EXISTS %[1]s.regions_names (
			id BIGINT NOT NULL,
			language_code TEXT NOT NULL,
			name TEXT NOT NULL,
			PRIMARY KEY (id, language_code)
		)`,
		`CREATE TABLE IF NOT EXISTS %[1]s.cities_names (
			id BIGINT NOT NULL,
			language_code TEXT NOT NULL,
			name TEXT NOT NULL,
			norm_name TEXT NOT NULL,
			PRIMARY KEY (id, language_code)
		)`,
		`CREATE INDEX IF NOT EXISTS cities_names_norm_idx ON %[1]s.cities_names (norm_name text_pattern_ops)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, fmt.Sprintf(stmt, s.cfg.DBSchema)); err != nil {
			return fmt.Errorf("failed to create schema objects: %w", err)
		}
	}

	log.Debug("Schema ensured", zap.String("schema", s.cfg.DBSchema))
	return nil
}

// TruncateAll clears every geonames table. An import is always a full
// reload: a partial append could not keep the idx column and the compact
// array consistent.
func (s *Store) TruncateAll(ctx context.Context) error {
	log := logger.Get()

	for _, name := range []string{"cities", "regions", "countries_names", "regions_names", "cities_names"} {
		if _, err := s.pool.Exec(ctx, fmt.Sprintf("TRUNCATE %s", s.Table(name))); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", name, err)
		}
	}

	log.Info("Cleared existing geonames tables")
	return nil
}
