package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tallman/dashboard-tools/internal/catalog"
)

var verifyFile string

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check catalog group ranges and counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := catalog.Load(verifyFile)
		if err != nil {
			return err
		}
		statuses, err := catalog.Verify(records)
		printGroupTable(statuses)
		if err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		color.Green("✓ %s: %d records, all groups complete", verifyFile, len(records))
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVarP(&verifyFile, "file", "f", defaultCatalogFile, "catalog file to check")
}
