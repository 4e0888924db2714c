package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tallman/dashboard-tools/internal/config"
)

// defaultCatalogFile is the single-file catalog written by generate and
// rebuild. The per-group files live under the configured data directory.
const defaultCatalogFile = "hooks/dashboard-data.json"

var dataDir string

var rootCmd = &cobra.Command{
	Use:   "dashctl",
	Short: "Maintain the dashboard metric catalog",
	Long: `dashctl generates, rebuilds, verifies and patches the JSON metric
catalog consumed by the dashboard frontend.

The catalog holds 174 records across ten chart groups with fixed ID
ranges. generate and rebuild work on the combined catalog file; the patch
commands target the per-group files under the data directory.

EXAMPLES:

  dashctl generate                      # regenerate the full catalog
  dashctl verify                        # check group ranges and counts
  dashctl rebuild -s export.json        # renumber a drifted export
  dashctl patch customer-metrics        # recompute customer SQL
  dashctl add-prod-value                # backfill prodValue: null`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		dataDir = cfg.DataDir()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(rebuildCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(patchCmd)
	rootCmd.AddCommand(addProdValueCmd)
}
