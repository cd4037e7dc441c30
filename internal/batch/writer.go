// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/eol-engine/internal/extract"
	"github.com/pdiddy/eol-engine/pkg/types"
)

// Writer renders batches to disk: one prompt_batch_* file and one
// metadata JSON per batch, plus the comprehensive summary.
type Writer struct {
	dir       string
	timestamp string
}

// NewWriter builds a Writer for dir. timestamp tags every file name
// produced by this run.
func NewWriter(dir, timestamp string) *Writer {
	return &Writer{dir: dir, timestamp: timestamp}
}

// WriteAll packs the loaded files into batches, writes every prompt and
// metadata file, and finishes with comprehensive_summary_<timestamp>.json.
// Files that failed to load are excluded from batches but still appear in
// the summary with their error. Returns the summary and the prompt file
// names, in batch order.
func (w *Writer) WriteAll(files []ScrapFile, maxTokens int) (types.BatchSummary, []string, error) {
	if maxTokens <= 0 {
		return types.BatchSummary{}, nil, fmt.Errorf("max_tokens must be positive, got %d", maxTokens)
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return types.BatchSummary{}, nil, fmt.Errorf("creating output directory: %w", err)
	}

	details := make(map[string]*types.FileDetail, len(files))
	summary := types.BatchSummary{TotalFilesProcessed: len(files)}

	var packable []types.BatchFile
	for _, f := range files {
		d := &types.FileDetail{
			ScrapFileName: f.Filename,
			SourceURL:     f.URL,
			Model:         f.Model,
		}
		details[f.Filename] = d

		if f.LoadErr != nil {
			d.ProcessingError = f.LoadErr.Error()
			summary.FilesWithoutDates++
			continue
		}

		d.DatesFoundCount = extract.CountDates(f.Content)
		d.HasDates = d.DatesFoundCount > 0
		if d.HasDates {
			summary.FilesWithDates++
			summary.TotalDatesFound += d.DatesFoundCount
		} else {
			summary.FilesWithoutDates++
		}
		packable = append(packable, f.BatchFile)
	}

	batches := Build(packable, maxTokens)
	summary.PromptBatchesCreated = len(batches)

	var promptFiles []string
	for _, doc := range batches {
		promptName := fmt.Sprintf("prompt_batch_%s_%d.txt", w.timestamp, doc.ID)

		prompt, err := RenderPrompt(doc)
		if err != nil {
			return summary, promptFiles, fmt.Errorf("rendering batch %d: %w", doc.ID, err)
		}
		if err := os.WriteFile(filepath.Join(w.dir, promptName), []byte(prompt), 0o644); err != nil {
			return summary, promptFiles, fmt.Errorf("writing %s: %w", promptName, err)
		}
		promptFiles = append(promptFiles, promptName)

		if err := w.writeMetadata(doc); err != nil {
			return summary, promptFiles, err
		}

		for _, f := range doc.Files {
			if d, ok := details[f.Filename]; ok {
				d.BatchNumber = doc.ID
				d.PromptFile = promptName
			}
		}
	}

	// Details in input order.
	for _, f := range files {
		summary.FileDetails = append(summary.FileDetails, *details[f.Filename])
	}

	if err := w.writeSummary(summary); err != nil {
		return summary, promptFiles, err
	}
	return summary, promptFiles, nil
}

// writeMetadata writes batch_<n>_metadata.json describing one batch
// without its content payload.
func (w *Writer) writeMetadata(doc types.BatchDocument) error {
	meta := struct {
		BatchID       int      `json:"batch_id"`
		TokenEstimate int      `json:"token_estimate"`
		Files         []string `json:"files"`
	}{
		BatchID:       doc.ID,
		TokenEstimate: doc.TokenEstimate,
	}
	for _, f := range doc.Files {
		meta.Files = append(meta.Files, f.Filename)
	}

	name := fmt.Sprintf("batch_%d_metadata.json", doc.ID)
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling batch metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(w.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// writeSummary writes comprehensive_summary_<timestamp>.json.
func (w *Writer) writeSummary(summary types.BatchSummary) error {
	name := fmt.Sprintf("comprehensive_summary_%s.json", w.timestamp)
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling batch summary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(w.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
