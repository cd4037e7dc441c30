// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pdiddy/eol-engine/internal/fetch"
	"github.com/pdiddy/eol-engine/internal/pipeline"
	"github.com/pdiddy/eol-engine/internal/router"
	"github.com/pdiddy/eol-engine/internal/store"
	"github.com/pdiddy/eol-engine/pkg/types"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape [models-file]",
	Short: "Run the lifecycle-date discovery pipeline",
	Long: `Scrape reads hardware model names (one per line from a file, or --model
flags), queries every configured source for each model, saves relevant pages
as Scrap_* files, extracts lifecycle dates, and writes one summary record
per model to Scraping_Summary_<timestamp>.json in the output directory.

Interrupting with Ctrl-C cancels cooperatively: in-flight fetches finish or
time out, and records produced so far are still written.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().StringSlice("model", nil, "model name to look up (repeatable, alternative to a models file)")
	scrapeCmd.Flags().String("output-dir", "", "directory for run artifacts")
	scrapeCmd.Flags().String("mode", "", "extraction mode: simple or advanced")
	scrapeCmd.Flags().Int("max-tokens", 0, "per-batch token budget recorded in the run config")
	scrapeCmd.Flags().Bool("no-index", false, "skip writing the SQLite results index")
	scrapeCmd.Flags().Bool("verbose", false, "enable debug logging")

	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig(cmd)
	if err != nil {
		return err
	}

	models, err := scrapeModels(cmd, args)
	if err != nil {
		return err
	}

	rt, err := router.New(fetch.New(cfg.Fetcher), cfg.Router)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("output directory: %w", err)
	}

	runID := uuid.NewString()

	verbose, _ := cmd.Flags().GetBool("verbose")
	logger, err := pipeline.NewRunLogger(cfg.OutputDir, runID, verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	opts := pipeline.Options{
		Listener: consoleListener{},
		Logger:   logger,
		Metrics:  pipeline.NewMetrics(),
	}

	noIndex, _ := cmd.Flags().GetBool("no-index")
	if !noIndex {
		index, err := store.Open(cfg.OutputDir, runID)
		if err != nil {
			return err
		}
		defer index.Close()
		opts.Sink = index
	}

	runner, err := pipeline.NewRunner(cfg, rt, opts)
	if err != nil {
		return err
	}

	run, err := runner.StartRun(runID, models)
	if err != nil {
		return err
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		<-sigs
		fmt.Fprintln(os.Stderr, "cancelling run, finishing in-flight fetches...")
		run.Cancel()
	}()

	res := run.Wait()

	fmt.Printf("run %s: %s\n", run.ID, res.Status)
	fmt.Printf("  records: %d, scrap files: %d, failed sources: %d, models with no dates: %d\n",
		len(res.Records), res.ScrapFiles, res.FailedSources, res.ZeroDateModels)
	if res.Status == pipeline.StatusFailed {
		return res.Err
	}
	fmt.Printf("  summary: %s\n", res.SummaryFile)
	return nil
}

// scrapeModels resolves the input model list from the positional file
// argument or repeated --model flags.
func scrapeModels(cmd *cobra.Command, args []string) ([]string, error) {
	flagModels, _ := cmd.Flags().GetStringSlice("model")
	if len(args) == 0 {
		if len(flagModels) == 0 {
			return nil, fmt.Errorf("provide a models file or at least one --model")
		}
		return flagModels, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("reading models file: %w", err)
	}

	models := flagModels
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		models = append(models, line)
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("models file %s is empty", args[0])
	}
	return models, nil
}

// consoleListener mirrors pipeline checkpoints to stderr.
type consoleListener struct {
	pipeline.NopListener
}

func (consoleListener) OnProgress(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

func (consoleListener) OnSourceDone(model string, res types.FetchResult) {
	if res.OK() {
		fmt.Fprintf(os.Stderr, "  %s: %s ok (%d bytes)\n", model, res.Target.SourceID, len(res.Body))
		return
	}
	fmt.Fprintf(os.Stderr, "  %s: %s %s\n", model, res.Target.SourceID, res.Status)
}

func (consoleListener) OnModelDone(model string, rec types.SummaryRecord) {
	fmt.Fprintf(os.Stderr, "  %s: vendor=%s eol=%q eos=%q eosv=%q\n",
		model, rec.VendorName, rec.EndOfLife, rec.EndOfSales, rec.EndOfService)
}
