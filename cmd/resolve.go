package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hip-hyena/geonamesdb/internal/assign"
	"github.com/hip-hyena/geonamesdb/internal/compact"
	"github.com/hip-hyena/geonamesdb/internal/geo"
	"github.com/hip-hyena/geonamesdb/internal/logger"
	"github.com/hip-hyena/geonamesdb/internal/store"
)

var (
	resolveLang string
	resolveRaw  bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <lon> <lat>",
	Short: "Resolve a coordinate to a place, region or country",
	Long: `Snaps the coordinate to the privacy grid, finds the nearest populated
place in the compact coordinate array, and assigns the point to that
place or to its containing region. Pass --raw to skip grid snapping.`,
	Args: cobra.ExactArgs(2),
	Run:  runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveLang, "lang", "en", "Preferred language for the resolved label")
	resolveCmd.Flags().Float64Var(&cfg.GridStepKm, "step", cfg.GridStepKm, "Grid cell size in kilometers")
	resolveCmd.Flags().BoolVar(&resolveRaw, "raw", false, "Resolve the exact coordinate without grid snapping")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) {
	log := logger.Get()

	lon, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		exitWithError("Invalid longitude", err)
	}
	lat, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		exitWithError("Invalid latitude", err)
	}
	if err := cfg.Validate(); err != nil {
		exitWithError("Invalid configuration", err)
	}

	if !resolveRaw {
		lon, lat = geo.SnapToGrid(lon, lat, cfg.GridStepKm)
		log.Debug("Snapped to grid",
			zap.Float64("lon", lon),
			zap.Float64("lat", lat),
			zap.Float64("step_km", cfg.GridStepKm))
	}

	index, err := compact.Open(cfg.CompactFile)
	if err != nil {
		exitWithError("Failed to open coordinate array", err)
	}
	defer index.Close()

	ctx := context.Background()
	st, err := store.New(ctx, cfg)
	if err != nil {
		exitWithError("Failed to connect to database", err)
	}
	defer st.Close()

	res, err := assign.New(st, index).ResolvePoint(ctx, lon, lat, resolveLang)
	if err != nil {
		exitWithError("Resolution failed", err)
	}

	fmt.Printf("%.5f, %.5f -> %s", lon, lat, res.Label)
	if res.PlaceID == nil {
		fmt.Printf(" (region level)")
	}
	fmt.Printf(" [%s]\n", res.CountryCode)
}
