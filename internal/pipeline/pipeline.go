// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates a scraping run: route each model to its
// sources, normalize and save what comes back, extract lifecycle dates,
// and aggregate one summary record per model.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/eol-engine/internal/aggregate"
	"github.com/pdiddy/eol-engine/internal/extract"
	"github.com/pdiddy/eol-engine/internal/normalize"
	"github.com/pdiddy/eol-engine/internal/router"
	"github.com/pdiddy/eol-engine/pkg/types"
)

// contentCap bounds the normalized content written per scrape file.
const contentCap = 5000

// scrapSeparator ends the header block of a Scrap_* file.
const scrapSeparator = "=================================================="

const timestampLayout = "20060102_150405"

// scrapTimestampLayout carries milliseconds so files from fast
// back-to-back fetches of the same source never collide.
const scrapTimestampLayout = "20060102_150405.000"

// RunStatus is the terminal outcome of a run.
type RunStatus string

const (
	// StatusSuccess: every model resolved at least one date and no
	// source fetch failed.
	StatusSuccess RunStatus = "success"

	// StatusPartial: the run completed (or was cancelled after partial
	// progress) with failed sources or zero-date models. Completed
	// records are preserved.
	StatusPartial RunStatus = "partial"

	// StatusFailed: a fatal I/O error prevented the summary from being
	// written.
	StatusFailed RunStatus = "failed"
)

// Searcher routes one model across all configured sources.
type Searcher interface {
	SearchModel(ctx context.Context, model string) []types.FetchResult
	Targets() []types.QueryTarget
}

// RecordSink receives each summary record as it is produced, typically
// the per-run results index.
type RecordSink interface {
	SaveRecord(ctx context.Context, record types.SummaryRecord) error
}

// Result is what a finished run hands back.
type Result struct {
	Status RunStatus

	Records []types.SummaryRecord

	// ZeroDateModels counts input models that resolved no dates.
	ZeroDateModels int

	// FailedSources counts terminal fetch failures across all models.
	FailedSources int

	// ScrapFiles counts saved per-fetch output files.
	ScrapFiles int

	// SummaryFile is the written Scraping_Summary_*.json name, empty
	// when Status is StatusFailed.
	SummaryFile string

	// Err is set when Status is StatusFailed.
	Err error
}

// Options carries the optional collaborators of a Runner. Zero values
// disable the corresponding concern.
type Options struct {
	Listener Listener
	Logger   *zap.Logger
	Metrics  *Metrics
	Sink     RecordSink
}

// Runner executes scraping runs. One Runner may execute many runs;
// per-run state lives in Run.
type Runner struct {
	cfg      types.PipelineConfig
	searcher Searcher
	strategy extract.Strategy
	listener Listener
	log      *zap.Logger
	metrics  *Metrics
	sink     RecordSink
}

// NewRunner builds a Runner from a validated config and a source
// router.
func NewRunner(cfg types.PipelineConfig, searcher Searcher, opts Options) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if searcher == nil {
		return nil, errors.New("pipeline: searcher is required")
	}

	r := &Runner{
		cfg:      cfg,
		searcher: searcher,
		strategy: extract.ForMode(cfg.Mode),
		listener: opts.Listener,
		log:      opts.Logger,
		metrics:  opts.Metrics,
		sink:     opts.Sink,
	}
	if r.listener == nil {
		r.listener = NopListener{}
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	return r, nil
}

// Run is the handle for one in-flight or finished run.
type Run struct {
	ID string

	cancel context.CancelFunc
	done   chan struct{}
	result Result
}

// Cancel requests cooperative cancellation. In-flight fetches complete
// or time out; results already computed are preserved and written.
func (r *Run) Cancel() {
	r.cancel()
}

// Wait blocks until the run finishes and returns its result.
func (r *Run) Wait() Result {
	<-r.done
	return r.result
}

// Start launches a run with a fresh UUID handle.
func (rn *Runner) Start(models []string) (*Run, error) {
	return rn.StartRun(uuid.NewString(), models)
}

// StartRun launches a run off the caller's goroutine under a
// caller-chosen ID and returns its handle. Model-list and
// output-directory problems are fatal and reported here, before any
// fetching begins.
func (rn *Runner) StartRun(runID string, models []string) (*Run, error) {
	if len(models) == 0 {
		return nil, errors.New("pipeline: model list is empty")
	}
	if err := os.MkdirAll(rn.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("pipeline: output directory: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	run := &Run{
		ID:     runID,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(run.done)
		defer cancel()
		run.result = rn.Execute(ctx, run.ID, models)
	}()
	return run, nil
}

// Execute runs the pipeline synchronously. Network and parse failures
// are per-source local; every input model yields exactly one record.
func (rn *Runner) Execute(ctx context.Context, runID string, models []string) Result {
	started := time.Now()
	stamp := started.Format(timestampLayout)

	rn.log.Info("run started",
		zap.String("run_id", runID),
		zap.Int("models", len(models)),
		zap.Int("targets", len(rn.searcher.Targets())),
		zap.String("mode", string(rn.cfg.Mode)),
	)
	rn.listener.OnProgress(fmt.Sprintf("starting run %s: %d models", runID, len(models)))

	var res Result
	cancelled := false

	for _, model := range models {
		if ctx.Err() != nil {
			cancelled = true
			// Unprocessed models still get an empty record so output
			// stays one record per input model.
			rec := aggregate.Aggregate(model, nil)
			res.Records = append(res.Records, rec)
			res.ZeroDateModels++
			continue
		}

		rec := rn.processModel(ctx, model, &res)
		res.Records = append(res.Records, rec)
		rn.metrics.IncRecord()
		if !rec.HasDates() {
			res.ZeroDateModels++
			rn.metrics.IncZeroDateModel()
		}
		if rn.sink != nil {
			if err := rn.sink.SaveRecord(ctx, rec); err != nil {
				rn.log.Warn("results index write failed",
					zap.String("model", model), zap.Error(err))
			}
		}
		rn.listener.OnModelDone(model, rec)
	}

	res.SummaryFile = fmt.Sprintf("Scraping_Summary_%s.json", stamp)
	if err := rn.writeSummary(res.SummaryFile, res.Records); err != nil {
		res.Status = StatusFailed
		res.Err = err
		res.SummaryFile = ""
		rn.log.Error("summary write failed", zap.Error(err))
		rn.listener.OnRunDone(res.Status, res.Records)
		return res
	}

	switch {
	case cancelled || res.FailedSources > 0 || res.ZeroDateModels > 0:
		res.Status = StatusPartial
	default:
		res.Status = StatusSuccess
	}

	manifest := buildManifest(runID, rn.cfg, started, time.Now(), res)
	if err := writeManifest(rn.cfg.OutputDir, manifest); err != nil {
		rn.log.Warn("run manifest write failed", zap.Error(err))
	}

	rn.log.Info("run finished",
		zap.String("run_id", runID),
		zap.String("status", string(res.Status)),
		zap.Int("records", len(res.Records)),
		zap.Int("zero_date_models", res.ZeroDateModels),
		zap.Int("failed_sources", res.FailedSources),
		zap.Duration("elapsed", time.Since(started)),
	)
	rn.listener.OnProgress(fmt.Sprintf("run %s finished: %s, %d models with no dates",
		runID, res.Status, res.ZeroDateModels))
	rn.listener.OnRunDone(res.Status, res.Records)
	return res
}

// processModel fetches all sources for one model, saves relevant pages,
// extracts candidates, and aggregates them into the model's record.
func (rn *Runner) processModel(ctx context.Context, model string, res *Result) types.SummaryRecord {
	rn.listener.OnProgress(fmt.Sprintf("searching: %s", model))

	var candidates []types.Candidate
	for _, fr := range rn.searcher.SearchModel(ctx, model) {
		rn.metrics.ObserveFetch(string(fr.Status), fr.Elapsed)
		rn.listener.OnSourceDone(model, fr)

		if !fr.OK() {
			res.FailedSources++
			rn.log.Warn("source fetch failed",
				zap.String("model", model),
				zap.String("source", fr.Target.SourceID),
				zap.String("status", string(fr.Status)),
				zap.Int("http_code", fr.HTTPCode),
				zap.Error(fr.Err),
			)
			continue
		}

		text := normalize.Normalize(fr.Body)
		if !normalize.ContainsModel(text, model) {
			rn.log.Debug("page not relevant",
				zap.String("model", model),
				zap.String("source", fr.Target.SourceID),
			)
			continue
		}
		// Cap saved content, keeping the region around the model
		// mention rather than the head of the page.
		text = normalize.Window(text, model, contentCap/2)

		name, err := rn.writeScrap(fr, model, text)
		if err != nil {
			// Mid-run I/O trouble stays local to this source.
			rn.log.Warn("scrap file write failed",
				zap.String("model", model),
				zap.String("source", fr.Target.SourceID),
				zap.Error(err),
			)
			continue
		}
		res.ScrapFiles++

		found := rn.strategy.Extract(extract.Input{
			Model:      model,
			SourceURL:  fr.URL,
			SourceKind: fr.Target.Kind,
			Filename:   name,
			Text:       text,
		})
		rn.metrics.AddCandidates(len(found))
		candidates = append(candidates, found...)

		rn.log.Info("source processed",
			zap.String("model", model),
			zap.String("source", fr.Target.SourceID),
			zap.Int("candidates", len(found)),
		)
	}

	return aggregate.Aggregate(model, candidates)
}

// writeScrap saves one fetched page under
// Scrap_<source_id>_<timestamp>.txt and returns the file name.
func (rn *Runner) writeScrap(fr types.FetchResult, model, content string) (string, error) {
	sourceID := fr.Target.SourceID
	if sourceID == "" {
		sourceID = router.SourceIDFromURL(fr.URL)
	}
	name := fmt.Sprintf("Scrap_%s_%s.txt", sourceID, time.Now().Format(scrapTimestampLayout))

	body := fmt.Sprintf("URL: %s\nModel: %s\nScraped at: %s\n%s\n%s\n",
		fr.URL, model, time.Now().UTC().Format(time.RFC3339), scrapSeparator, content)

	if err := os.WriteFile(filepath.Join(rn.cfg.OutputDir, name), []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return name, nil
}

// writeSummary writes Scraping_Summary_<timestamp>.json, an array of
// summary records in input-model order.
func (rn *Runner) writeSummary(name string, records []types.SummaryRecord) error {
	if records == nil {
		records = []types.SummaryRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(rn.cfg.OutputDir, name), data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
