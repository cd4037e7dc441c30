// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/eol-engine/internal/pipeline"
	"github.com/pdiddy/eol-engine/internal/store"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Query a finished run's summary records",
	Long: `Results reads the SQLite index of a finished scraping run and prints its
summary records, optionally filtered by vendor, model substring, or to
records with at least one resolved date.`,
	RunE: runResults,
}

func init() {
	resultsCmd.Flags().String("run-dir", "output", "run output directory holding run.yaml and results.db")
	resultsCmd.Flags().String("vendor", "", "filter by vendor name")
	resultsCmd.Flags().String("model", "", "filter by model substring")
	resultsCmd.Flags().Bool("only-dated", false, "only records with at least one resolved date")
	resultsCmd.Flags().Bool("json", false, "output records as JSON")

	rootCmd.AddCommand(resultsCmd)
}

func runResults(cmd *cobra.Command, args []string) error {
	runDir, _ := cmd.Flags().GetString("run-dir")

	manifest, err := pipeline.ReadManifest(runDir)
	if err != nil {
		return fmt.Errorf("reading run manifest in %s: %w", runDir, err)
	}

	s, err := store.Open(runDir, manifest.RunID)
	if err != nil {
		return err
	}
	defer s.Close()

	vendor, _ := cmd.Flags().GetString("vendor")
	model, _ := cmd.Flags().GetString("model")
	onlyDated, _ := cmd.Flags().GetBool("only-dated")

	records, err := s.Records(context.Background(), store.Filter{
		Vendor:    vendor,
		Model:     model,
		OnlyDated: onlyDated,
	})
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No records found.")
		return nil
	}

	fmt.Printf("run %s (%s, %d models)\n\n", manifest.RunID, manifest.Status, manifest.Models)
	fmt.Printf("%-30s  %-10s  %-12s  %-12s  %-12s\n",
		"Model", "Vendor", "EOSales", "EOLife", "EOService")
	fmt.Println(strings.Repeat("-", 84))

	for _, rec := range records {
		fmt.Printf("%-30s  %-10s  %-12s  %-12s  %-12s\n",
			clip(rec.Model, 30), clip(rec.VendorName, 10),
			clip(rec.EndOfSales, 12), clip(rec.EndOfLife, 12), clip(rec.EndOfService, 12))
	}
	fmt.Printf("\n%d records\n", len(records))
	return nil
}

func clip(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}
