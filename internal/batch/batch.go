// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch packs saved scrape content into token-budgeted prompt
// documents for external LLM review.
package batch

import (
	"github.com/pdiddy/eol-engine/pkg/types"
)

// headerOverheadTokens approximates the per-file section labels
// (FILE n:, URL:, MODEL:, CONTENT:) added by the prompt template.
const headerOverheadTokens = 8

// EstimateTokens is a deterministic, cheap approximation of the token
// count of s: one token per four characters. It deliberately avoids a
// real tokenizer call.
func EstimateTokens(s string) int {
	return len(s) / 4
}

// fileCost is the token estimate for one file including its header
// metadata.
func fileCost(f types.BatchFile) int {
	return EstimateTokens(f.Content) +
		EstimateTokens(f.Filename+f.URL+f.Model) +
		headerOverheadTokens
}

// Build greedily packs files into batches of at most maxTokens each,
// preserving input order across batch boundaries. Batches are numbered
// from 1. A single file whose own cost exceeds maxTokens becomes its
// own one-file batch, kept whole rather than truncated, so its batch is
// the only case where TokenEstimate may exceed the budget.
func Build(files []types.BatchFile, maxTokens int) []types.BatchDocument {
	var batches []types.BatchDocument
	current := types.BatchDocument{ID: 1}

	flush := func() {
		if len(current.Files) > 0 {
			batches = append(batches, current)
			current = types.BatchDocument{ID: current.ID + 1}
		}
	}

	for _, f := range files {
		cost := fileCost(f)
		if len(current.Files) > 0 && current.TokenEstimate+cost > maxTokens {
			flush()
		}
		current.Files = append(current.Files, f)
		current.TokenEstimate += cost
		if current.TokenEstimate > maxTokens {
			// Oversized single file: close immediately so the overrun
			// never compounds.
			flush()
		}
	}
	flush()

	return batches
}
