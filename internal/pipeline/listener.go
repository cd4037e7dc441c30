// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"github.com/pdiddy/eol-engine/pkg/types"
)

// Listener receives pipeline checkpoints. Implementations must be fast;
// callbacks run on the pipeline goroutine. A front end plugs in here
// instead of the pipeline knowing about any UI.
type Listener interface {
	// OnProgress delivers a human-readable status line.
	OnProgress(msg string)

	// OnSourceDone fires after each source fetch reaches a terminal
	// status, success or failure.
	OnSourceDone(model string, result types.FetchResult)

	// OnModelDone fires after a model's record is aggregated.
	OnModelDone(model string, record types.SummaryRecord)

	// OnRunDone fires once, after the summary file is written (or the
	// run failed trying).
	OnRunDone(status RunStatus, records []types.SummaryRecord)
}

// NopListener discards all checkpoints.
type NopListener struct{}

func (NopListener) OnProgress(string)                          {}
func (NopListener) OnSourceDone(string, types.FetchResult)     {}
func (NopListener) OnModelDone(string, types.SummaryRecord)    {}
func (NopListener) OnRunDone(RunStatus, []types.SummaryRecord) {}
