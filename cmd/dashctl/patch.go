package main

import (
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tallman/dashboard-tools/internal/catalog"
	"github.com/tallman/dashboard-tools/internal/patch"
)

var patchFile string

var patchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Run a corrective pass over a per-group catalog file",
}

// runPatch loads the file, applies the pass and saves only when something
// changed.
func runPatch(file string, pass func([]catalog.MetricRecord) int) error {
	records, err := catalog.Load(file)
	if err != nil {
		return err
	}
	changed := pass(records)
	if changed == 0 {
		color.Yellow("– %s: nothing to change", file)
		return nil
	}
	if err := catalog.Save(file, records); err != nil {
		return err
	}
	color.Green("✓ %s: %d of %d records updated", file, changed, len(records))
	return nil
}

var patchCustomerCmd = &cobra.Command{
	Use:   "customer-metrics",
	Short: "Recompute customer SQL and rename the retained series to prospects",
	RunE: func(cmd *cobra.Command, args []string) error {
		file := patchFile
		if file == "" {
			file = filepath.Join(dataDir, "customer-metrics.json")
		}
		return runPatch(file, patch.CustomerMetrics)
	},
}

var patchRentalCmd = &cobra.Command{
	Use:   "rental-sql",
	Short: "Rewrite rental-value SQL on odd-ID historical records",
	RunE: func(cmd *cobra.Command, args []string) error {
		file := patchFile
		if file == "" {
			file = filepath.Join(dataDir, "historical-data.json")
		}
		return runPatch(file, patch.RentalSQL)
	},
}

var patchFirstTwelveCmd = &cobra.Command{
	Use:   "first-twelve",
	Short: "Normalize IDs 1-12 of the historical file to the standard templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		file := patchFile
		if file == "" {
			file = filepath.Join(dataDir, "historical-data.json")
		}
		return runPatch(file, patch.FirstTwelve)
	},
}

func init() {
	patchCmd.PersistentFlags().StringVarP(&patchFile, "file", "f", "", "catalog file to patch (default depends on the pass)")
	patchCmd.AddCommand(patchCustomerCmd)
	patchCmd.AddCommand(patchRentalCmd)
	patchCmd.AddCommand(patchFirstTwelveCmd)
}
