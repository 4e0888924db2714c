package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tallman/dashboard-tools/internal/catalog"
)

var (
	rebuildSource string
	rebuildFile   string
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the catalog from a drifted export",
	Long: `Rebuild buckets the source records by chart group, reassigns IDs to
the canonical ranges and synthesizes whatever is missing. Use it when an
exported catalog has drifted IDs or dropped groups.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := catalog.Load(rebuildSource)
		if err != nil {
			return err
		}
		records, tallies, err := catalog.Rebuild(source)
		if err != nil {
			return fmt.Errorf("rebuild: %w", err)
		}
		if err := catalog.Save(rebuildFile, records); err != nil {
			return err
		}
		for _, tally := range tallies {
			fmt.Printf("  %-18s from source %3d, synthesized %3d\n",
				tally.Group.Name, tally.FromSource, tally.Synthesized)
		}
		color.Green("✓ rebuilt %d records from %s into %s", len(records), rebuildSource, rebuildFile)
		return nil
	},
}

func init() {
	rebuildCmd.Flags().StringVarP(&rebuildSource, "source", "s", "", "source export to rebuild from (required)")
	rebuildCmd.Flags().StringVarP(&rebuildFile, "file", "f", defaultCatalogFile, "catalog file to write")
	_ = rebuildCmd.MarkFlagRequired("source")
}
