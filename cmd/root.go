package cmd

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/spf13/cobra"

	"github.com/hip-hyena/geonamesdb/internal/config"
	"github.com/hip-hyena/geonamesdb/internal/logger"
)

// cfg must exist before any file's init() binds flags to its fields
var cfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "geonamesdb",
	Short: "Geographic reference database importer and resolver",
	Long: `geonamesdb builds a place-name reference database from the geonames.org
dumps and answers location questions against it.

Features:
  - Streaming import of populated places with localized names
  - Compact binary coordinate array for fast nearest-place lookup
  - Population-weighted assignment of points to places
  - Prefix search over normalized place names`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loaded, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		overlayConfig(cmd, loaded)

		if cfg.LogFile != "" {
			logger.InitWithFile(cfg.Verbose, cfg.LogFile)
		} else {
			logger.Init(cfg.Verbose)
		}
	},
}

// overlayConfig applies file and environment settings on top of the
// defaults, keeping any value the user set explicitly via a flag
func overlayConfig(cmd *cobra.Command, loaded *config.Config) {
	flags := cmd.Flags()
	keep := func(name string, apply func()) {
		if !flags.Changed(name) {
			apply()
		}
	}

	keep("verbose", func() { cfg.Verbose = loaded.Verbose })
	keep("log-file", func() { cfg.LogFile = loaded.LogFile })
	keep("metrics-interval", func() { cfg.MetricsInterval = loaded.MetricsInterval })

	keep("dumps-dir", func() { cfg.DumpsDir = loaded.DumpsDir })
	keep("compact-file", func() { cfg.CompactFile = loaded.CompactFile })
	keep("source", func() { cfg.Source = loaded.Source })
	keep("batch-size", func() { cfg.BatchSize = loaded.BatchSize })
	keep("step", func() { cfg.GridStepKm = loaded.GridStepKm })
	cfg.BaseURL = loaded.BaseURL

	keep("db-host", func() { cfg.DBHost = loaded.DBHost })
	keep("db-port", func() { cfg.DBPort = loaded.DBPort })
	keep("db-name", func() { cfg.DBName = loaded.DBName })
	keep("db-user", func() { cfg.DBUser = loaded.DBUser })
	keep("db-password", func() { cfg.DBPassword = loaded.DBPassword })
	keep("db-schema", func() { cfg.DBSchema = loaded.DBSchema })
}

func Execute() error {
	defer logger.Sync()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Path to log file for persistent logging (JSON format)")
	rootCmd.PersistentFlags().DurationVar(&cfg.MetricsInterval, "metrics-interval", cfg.MetricsInterval, "Interval for resource usage logging (e.g., 10s, 1m)")

	rootCmd.PersistentFlags().StringVar(&cfg.DumpsDir, "dumps-dir", cfg.DumpsDir, "Directory for downloaded dump files")
	rootCmd.PersistentFlags().StringVar(&cfg.CompactFile, "compact-file", cfg.CompactFile, "Path of the binary coordinate array")

	rootCmd.PersistentFlags().StringVar(&cfg.DBHost, "db-host", cfg.DBHost, "PostgreSQL host")
	rootCmd.PersistentFlags().IntVar(&cfg.DBPort, "db-port", cfg.DBPort, "PostgreSQL port")
	rootCmd.PersistentFlags().StringVarP(&cfg.DBName, "db-name", "d", cfg.DBName, "PostgreSQL database name")
	rootCmd.PersistentFlags().StringVarP(&cfg.DBUser, "db-user", "U", cfg.DBUser, "PostgreSQL user")
	rootCmd.PersistentFlags().StringVarP(&cfg.DBPassword, "db-password", "W", cfg.DBPassword, "PostgreSQL password")
	rootCmd.PersistentFlags().StringVar(&cfg.DBSchema, "db-schema", cfg.DBSchema, "PostgreSQL schema")
}

func exitWithError(msg string, err error) {
	log := logger.Get()
	if err != nil {
		log.Error(msg, zap.Error(err))
	} else {
		log.Error(msg)
	}
	os.Exit(1)
}
