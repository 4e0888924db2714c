package main

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tallman/dashboard-tools/internal/catalog"
	"github.com/tallman/dashboard-tools/internal/patch"
)

// groupFiles is the standard per-group file set under the data directory.
var groupFiles = []string{
	"accounts.json",
	"ar-aging.json",
	"daily-orders.json",
	"historical-data.json",
	"key-metrics.json",
	"site-distribution.json",
	"web-orders.json",
	"customer-metrics.json",
	"por-overview.json",
	"service.json",
}

var addProdValueCmd = &cobra.Command{
	Use:   "add-prod-value [files...]",
	Short: "Backfill an explicit-null prodValue on records lacking it",
	Long: `add-prod-value walks the per-group catalog files and adds
"prodValue": null to every record that does not carry the key, so
production mode starts from null until live query results fill it in.
Pass file paths to override the standard list. Missing files are skipped
with a warning.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		files := args
		if len(files) == 0 {
			files = make([]string, 0, len(groupFiles))
			for _, name := range groupFiles {
				files = append(files, filepath.Join(dataDir, name))
			}
		}

		total := 0
		for _, file := range files {
			records, err := catalog.Load(file)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					color.Yellow("– %s: missing, skipped", file)
					continue
				}
				return err
			}
			changed := patch.EnsureProdValue(records)
			if changed > 0 {
				if err := catalog.Save(file, records); err != nil {
					return err
				}
			}
			color.Green("✓ %s: %d of %d records backfilled", file, changed, len(records))
			total += changed
		}
		color.Green("✓ total: %d records backfilled", total)
		return nil
	},
}
