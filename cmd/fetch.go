package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hip-hyena/geonamesdb/internal/geonames"
	"github.com/hip-hyena/geonamesdb/internal/logger"
)

var fetchForce bool

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the geonames dump files",
	Long: `Downloads the country, region, populated-place and alternate-name dumps
into the dumps directory. Files already present are kept unless --force
is given.`,
	Run: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&cfg.Source, "source", cfg.Source, "Populated places dump to use (e.g. cities15000, cities5000)")
	fetchCmd.Flags().BoolVar(&fetchForce, "force", false, "Re-download files even if already present")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) {
	log := logger.Get()

	if err := cfg.Validate(); err != nil {
		exitWithError("Invalid configuration", err)
	}

	log.Info("Fetching dump files",
		zap.String("source", cfg.Source),
		zap.String("dir", cfg.DumpsDir))

	fetcher := geonames.NewFetcher(cfg.BaseURL, cfg.DumpsDir)
	if err := fetcher.FetchAll(context.Background(), cfg.Source, fetchForce); err != nil {
		exitWithError("Fetch failed", err)
	}

	log.Info("All dump files ready")
}
