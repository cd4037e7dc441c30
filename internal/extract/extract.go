// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract scans normalized text for vendor names and lifecycle
// milestone dates, producing candidates with a coarse confidence signal.
package extract

import (
	"strings"

	"github.com/pdiddy/eol-engine/pkg/types"
)

// Confidence proximity windows, in characters. Heuristic; tuned against
// vendor lifecycle pages rather than derived.
const (
	highWindow   = 200
	mediumWindow = 400
)

// snippetRadius bounds the raw snippet carried on each candidate.
const snippetRadius = 150

// Input is one normalized source page to extract from.
type Input struct {
	Model      string
	SourceURL  string
	SourceKind types.TargetKind
	Filename   string
	Text       string
}

// Strategy is the extraction mode contract. Both implementations share
// the Candidate contract; the pipeline selects one at construction.
type Strategy interface {
	Name() string

	// Extract returns zero or more candidates for in. Zero candidates
	// is the expected no-data-found outcome, never an error, and
	// Extract never fails on malformed or adversarial text.
	Extract(in Input) []types.Candidate
}

// ForMode returns the strategy for mode. Unknown modes fall back to
// simple extraction.
func ForMode(mode types.ExtractMode) Strategy {
	if mode == types.ModeAdvanced {
		return &Advanced{}
	}
	return &Simple{}
}

// scan applies the rule table to one piece of text and builds at most
// one candidate from it. Shared by both strategies.
func scan(in Input, text string) (types.Candidate, bool) {
	hits := findKindDates(text)
	if len(hits) == 0 {
		return types.Candidate{}, false
	}

	vendor, vendorPos := detectVendor(text, in.Model)

	dates := make(map[types.DateKind]string, len(hits))
	firstPos := -1
	best := types.ConfidenceLow
	for _, kind := range types.DateKinds {
		hit, ok := hits[kind]
		if !ok {
			continue
		}
		dates[kind] = hit.value
		if firstPos < 0 || hit.pos < firstPos {
			firstPos = hit.pos
		}
		if c := scoreConfidence(text, in.Model, vendorPos, hit.pos); c > best {
			best = c
		}
	}

	return types.Candidate{
		Model:      in.Model,
		SourceURL:  in.SourceURL,
		SourceKind: in.SourceKind,
		Filename:   in.Filename,
		Vendor:     vendor,
		Dates:      dates,
		Confidence: best,
		Snippet:    snippet(text, firstPos),
	}, true
}

// scoreConfidence rates one resolved date: high when vendor, model, and
// date co-occur within the high window; medium when the model is within
// the medium window; low otherwise.
func scoreConfidence(text, model string, vendorPos, datePos int) types.Confidence {
	modelPos := strings.Index(strings.ToLower(text), strings.ToLower(model))

	if modelPos >= 0 && vendorPos >= 0 &&
		abs(datePos-modelPos) <= highWindow && abs(datePos-vendorPos) <= highWindow {
		return types.ConfidenceHigh
	}
	if modelPos >= 0 && abs(datePos-modelPos) <= mediumWindow {
		return types.ConfidenceMedium
	}
	return types.ConfidenceLow
}

// snippet returns the text surrounding pos, for provenance.
func snippet(text string, pos int) string {
	if pos < 0 {
		pos = 0
	}
	start := pos - snippetRadius
	if start < 0 {
		start = 0
	}
	end := pos + snippetRadius
	if end > len(text) {
		end = len(text)
	}
	return strings.TrimSpace(text[start:end])
}

// Simple extraction: one pass over the whole text, at most one
// candidate per source.
type Simple struct{}

// Name returns the mode label.
func (s *Simple) Name() string { return string(types.ModeSimple) }

// Extract implements Strategy.
func (s *Simple) Extract(in Input) []types.Candidate {
	cand, ok := scan(in, in.Text)
	if !ok {
		return nil
	}
	return []types.Candidate{cand}
}
