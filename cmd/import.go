package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hip-hyena/geonamesdb/internal/geonames"
	"github.com/hip-hyena/geonamesdb/internal/ingest"
	"github.com/hip-hyena/geonamesdb/internal/logger"
	"github.com/hip-hyena/geonamesdb/internal/metrics"
	"github.com/hip-hyena/geonamesdb/internal/store"
)

var importSkipDownload bool

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Build the reference database from the geonames dumps",
	Long: `Imports countries, regions, populated places and their localized names
into PostgreSQL, and writes the compact binary coordinate array used for
nearest-place lookup. The import is a full reload.`,
	Run: runImport,
}

func init() {
	importCmd.Flags().StringVar(&cfg.Source, "source", cfg.Source, "Populated places dump to use (e.g. cities15000, cities5000)")
	importCmd.Flags().IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "Rows per bulk insert")
	importCmd.Flags().BoolVar(&importSkipDownload, "skip-download", false, "Use already-downloaded dump files")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) {
	log := logger.Get()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := cfg.Validate(); err != nil {
		exitWithError("Invalid configuration", err)
	}

	if !importSkipDownload {
		fetcher := geonames.NewFetcher(cfg.BaseURL, cfg.DumpsDir)
		if err := fetcher.FetchAll(ctx, cfg.Source, false); err != nil {
			exitWithError("Fetch failed", err)
		}
	}

	st, err := store.New(ctx, cfg)
	if err != nil {
		exitWithError("Failed to connect to database", err)
	}
	defer st.Close()

	collector := metrics.NewCollector(cfg.MetricsInterval, log)
	go collector.Start(ctx)

	log.Info("Starting import",
		zap.String("source", cfg.Source),
		zap.Int("batch_size", cfg.BatchSize))

	stats, err := ingest.New(cfg, st).Run(ctx)
	if err != nil {
		exitWithError("Import failed", err)
	}

	log.Info("Database ready",
		zap.Int("countries", stats.Countries),
		zap.Int("regions", stats.Regions),
		zap.Int("places", stats.Places),
		zap.Int("names", stats.NamesWritten))
}
