package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the global configuration for import and resolution
type Config struct {
	// Dump source settings
	DumpsDir string `yaml:"dumps_dir" env:"GEONAMESDB_DUMPS_DIR"`
	Source   string `yaml:"source" env:"GEONAMESDB_SOURCE"`
	BaseURL  string `yaml:"base_url" env:"GEONAMESDB_BASE_URL"`

	// Compact place array artifact
	CompactFile string `yaml:"compact_file" env:"GEONAMESDB_COMPACT_FILE"`

	// Database settings
	DBHost     string `yaml:"db_host" env:"GEONAMESDB_DB_HOST"`
	DBPort     int    `yaml:"db_port" env:"GEONAMESDB_DB_PORT"`
	DBName     string `yaml:"db_name" env:"GEONAMESDB_DB_NAME"`
	DBUser     string `yaml:"db_user" env:"GEONAMESDB_DB_USER"`
	DBPassword string `yaml:"db_password" env:"GEONAMESDB_DB_PASSWORD"`
	DBSchema   string `yaml:"db_schema" env:"GEONAMESDB_DB_SCHEMA"`

	// Processing settings
	BatchSize  int     `yaml:"batch_size" env:"GEONAMESDB_BATCH_SIZE"`
	GridStepKm float64 `yaml:"grid_step_km" env:"GEONAMESDB_GRID_STEP_KM"`

	// Logging and metrics
	Verbose         bool          `yaml:"verbose" env:"GEONAMESDB_VERBOSE"`
	LogFile         string        `yaml:"log_file" env:"GEONAMESDB_LOG_FILE"`
	MetricsInterval time.Duration `yaml:"metrics_interval" env:"GEONAMESDB_METRICS_INTERVAL"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		DumpsDir:        "./dumps",
		Source:          "cities15000",
		BaseURL:         "https://download.geonames.org/export/dump",
		CompactFile:     "./cities-coords.bin",
		DBHost:          "localhost",
		DBPort:          5432,
		DBName:          "geonames",
		DBUser:          "postgres",
		DBPassword:      "",
		DBSchema:        "public",
		BatchSize:       3000,
		GridStepKm:      1.0,
		MetricsInterval: 30 * time.Second,
	}
}

// Load builds the configuration in precedence order: defaults, then an
// optional YAML file (GEONAMESDB_CONFIG or ./geonamesdb.yaml), then the
// environment (a .env file is honored if present). Command-line flags are
// bound on top of the result and override everything.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	path := os.Getenv("GEONAMESDB_CONFIG")
	if path == "" {
		if _, err := os.Stat("geonamesdb.yaml"); err == nil {
			path = "geonamesdb.yaml"
		}
	}
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	return cfg, nil
}

// LoadFile overlays settings from a YAML config file
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection string
func (c *Config) ConnectionString() string {
	connStr := fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBName, c.DBUser,
	)
	if c.DBPassword != "" {
		connStr += fmt.Sprintf(" password=%s", c.DBPassword)
	}
	return connStr
}

// DumpPath returns the local path of a named dump file
func (c *Config) DumpPath(name string) string {
	return filepath.Join(c.DumpsDir, name)
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("source is required")
	}
	if c.CompactFile == "" {
		return fmt.Errorf("compact file path is required")
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch size must be at least 1")
	}
	if c.GridStepKm <= 0 {
		return fmt.Errorf("grid step must be positive")
	}
	return nil
}
