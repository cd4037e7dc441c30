// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate folds all candidates for one model into a single
// summary record, resolving conflicts by confidence, source precedence,
// and first-seen order.
package aggregate

import (
	"github.com/pdiddy/eol-engine/pkg/types"
)

// Aggregate merges candidates into one SummaryRecord for model. A model
// with zero candidates still yields a record with every date field
// empty: each model entering the pipeline produces exactly one record,
// present or empty. The candidates are consumed here and must not be
// retained by the caller afterwards.
func Aggregate(model string, candidates []types.Candidate) types.SummaryRecord {
	record := types.SummaryRecord{
		Model:          model,
		VendorName:     "",
		CandidateCount: len(candidates),
	}
	if len(candidates) == 0 {
		return record
	}

	// Per date kind, the highest-confidence candidate wins; ties break
	// by source precedence, then first-seen order.
	for _, kind := range types.DateKinds {
		winner := -1
		for i, cand := range candidates {
			if cand.Dates[kind] == "" {
				continue
			}
			if winner < 0 || beats(cand, candidates[winner]) {
				winner = i
			}
		}
		if winner >= 0 {
			record.SetDate(kind, candidates[winner].Dates[kind])
		}
	}

	// Vendor: first candidate reporting a known vendor.
	for _, cand := range candidates {
		if cand.Vendor != "" && cand.Vendor != types.VendorUnknown {
			record.VendorName = cand.Vendor
			break
		}
	}

	// Provenance: the candidate contributing the most fields; highest
	// confidence on ties, then first seen.
	best := 0
	for i := 1; i < len(candidates); i++ {
		if fieldCount(candidates[i]) > fieldCount(candidates[best]) ||
			(fieldCount(candidates[i]) == fieldCount(candidates[best]) &&
				candidates[i].Confidence > candidates[best].Confidence) {
			best = i
		}
	}
	record.URL = candidates[best].SourceURL
	record.Filename = candidates[best].Filename

	return record
}

// beats reports whether a strictly outranks b for date selection.
func beats(a, b types.Candidate) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	return a.SourceKind.Precedence() > b.SourceKind.Precedence()
}

// fieldCount counts the milestone values a candidate supplies.
func fieldCount(c types.Candidate) int {
	n := 0
	for _, kind := range types.DateKinds {
		if c.Dates[kind] != "" {
			n++
		}
	}
	return n
}
