// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/eol-engine/pkg/types"
)

const manifestFile = "run.yaml"

// Manifest records what one run did and with which settings. It is
// written last, after the summary, so its presence marks a completed
// run directory.
type Manifest struct {
	RunID      string    `yaml:"run_id"`
	StartedAt  time.Time `yaml:"started_at"`
	FinishedAt time.Time `yaml:"finished_at"`
	Status     RunStatus `yaml:"status"`

	Config types.PipelineConfig `yaml:"config"`

	Models         int    `yaml:"models"`
	ScrapFiles     int    `yaml:"scrap_files"`
	FailedSources  int    `yaml:"failed_sources"`
	ZeroDateModels int    `yaml:"zero_date_models"`
	SummaryFile    string `yaml:"summary_file"`
}

func buildManifest(runID string, cfg types.PipelineConfig, started, finished time.Time, res Result) Manifest {
	return Manifest{
		RunID:          runID,
		StartedAt:      started.UTC(),
		FinishedAt:     finished.UTC(),
		Status:         res.Status,
		Config:         cfg,
		Models:         len(res.Records),
		ScrapFiles:     res.ScrapFiles,
		FailedSources:  res.FailedSources,
		ZeroDateModels: res.ZeroDateModels,
		SummaryFile:    res.SummaryFile,
	}
}

func writeManifest(dir string, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling run manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, manifestFile), data, 0o644)
}

// ReadManifest loads the run manifest from dir.
func ReadManifest(dir string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parsing run manifest: %w", err)
	}
	return m, nil
}
