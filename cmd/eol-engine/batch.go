// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/eol-engine/internal/batch"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Pack saved scrape files into token-budgeted prompt documents",
	Long: `Batch reads Scrap_* files from a scraping run, estimates their token
cost, and packs them in order into prompt_batch_* documents that each fit
the token budget. A file too large for any batch is kept whole in a batch
of its own. Per-batch metadata and an overall comprehensive summary are
written alongside the prompts.`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().String("input-dir", "output", "directory holding Scrap_* files")
	batchCmd.Flags().String("output-dir", "", "directory for prompt files (default: input-dir)")
	batchCmd.Flags().Int("max-tokens", 0, "per-batch token budget")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig(cmd)
	if err != nil {
		return err
	}

	inputDir, _ := cmd.Flags().GetString("input-dir")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	if outputDir == "" {
		outputDir = inputDir
	}

	files, err := batch.LoadDir(inputDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no Scrap_* files found in %s", inputDir)
	}

	w := batch.NewWriter(outputDir, time.Now().Format("20060102_150405"))
	summary, prompts, err := w.WriteAll(files, cfg.MaxTokens)
	if err != nil {
		return err
	}

	fmt.Printf("processed %d files: %d with dates, %d without, %d dates total\n",
		summary.TotalFilesProcessed, summary.FilesWithDates,
		summary.FilesWithoutDates, summary.TotalDatesFound)
	fmt.Printf("wrote %d prompt batches to %s\n", len(prompts), outputDir)
	for _, p := range prompts {
		fmt.Printf("  %s\n", p)
	}
	return nil
}
