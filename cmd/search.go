package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hip-hyena/geonamesdb/internal/store"
)

var (
	searchLang   string
	searchLimit  int
	searchOffset int
)

var searchCmd = &cobra.Command{
	Use:   "search <prefix>",
	Short: "Find places by name prefix",
	Long: `Searches the localized place names for the given prefix, ignoring case,
diacritic compatibility forms and punctuation. Results are ordered by
population, largest first.`,
	Args: cobra.ExactArgs(1),
	Run:  runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchLang, "lang", "en", "Preferred language for display names")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 6, "Maximum number of results")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "Number of results to skip")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	st, err := store.New(ctx, cfg)
	if err != nil {
		exitWithError("Failed to connect to database", err)
	}
	defer st.Close()

	matches, err := st.CitiesByNamePrefix(ctx, args[0], searchLang, searchOffset, searchLimit)
	if err != nil {
		exitWithError("Search failed", err)
	}
	if len(matches) == 0 {
		fmt.Println("No matches")
		return
	}

	regionIDs := make([]int64, 0, len(matches))
	countryCodes := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.RegionID != nil {
			regionIDs = append(regionIDs, *m.RegionID)
		}
		countryCodes = append(countryCodes, m.CountryCode)
	}

	regionNames, err := st.RegionNames(ctx, regionIDs, searchLang)
	if err != nil {
		exitWithError("Search failed", err)
	}
	countryNames, err := st.CountryNames(ctx, countryCodes, searchLang)
	if err != nil {
		exitWithError("Search failed", err)
	}

	for _, m := range matches {
		parts := []string{m.Name}
		if m.RegionID != nil {
			if name := regionNames[*m.RegionID]; name != "" {
				parts = append(parts, name)
			}
		}
		if name := countryNames[m.CountryCode]; name != "" {
			parts = append(parts, name)
		} else {
			parts = append(parts, strings.ToUpper(m.CountryCode))
		}
		fmt.Printf("%s (pop. %d)\n", strings.Join(parts, ", "), m.Population)
	}
}
