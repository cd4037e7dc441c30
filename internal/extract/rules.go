// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"

	"github.com/pdiddy/eol-engine/pkg/types"
)

// Rule pairs a milestone kind with the anchor pattern that announces it.
// Rules are evaluated in order; for a given kind the first anchor whose
// trailing span yields a date wins.
type Rule struct {
	Kind   types.DateKind
	Anchor *regexp.Regexp
}

// anchorSpan is how many characters after an anchor are searched for a
// date value.
const anchorSpan = 80

// Rules is the ordered rule table. Synonyms cover vendor phrasing:
// "EOL", "discontinuation date", "withdrawal from marketing".
var Rules = []Rule{
	{types.EndOfLife, regexp.MustCompile(`(?i)end[\s-]{0,3}of[\s-]{0,3}life|\beol\b|discontinu(?:ation|ed)\s+(?:date)?|life\s+end`)},
	{types.EndOfSales, regexp.MustCompile(`(?i)end[\s-]{0,3}of[\s-]{0,3}sales?|\beos\b|sales?\s+end|last\s+order\s+date|withdraw(?:al|n)\s+(?:from\s+marketing|date)?`)},
	{types.EndOfService, regexp.MustCompile(`(?i)end[\s-]{0,3}of[\s-]{0,3}(?:service|support)|(?:service|support)\s+end|end\s+of\s+security\s+updates`)},
}

// datePatterns are the date-format patterns tried in order within an
// anchor's span. First match wins.
var datePatterns = []*regexp.Regexp{
	// Numeric M/D/Y or D-M-Y.
	regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
	// ISO Y-M-D.
	regexp.MustCompile(`\b\d{4}-\d{1,2}-\d{1,2}\b`),
	// Spelled month, day-first: "31 December 2025".
	regexp.MustCompile(`(?i)\b\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\w*\.?\s+\d{2,4}\b`),
	// Spelled month, month-first: "December 31, 2025".
	regexp.MustCompile(`(?i)\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\w*\.?\s+\d{1,2},?\s+\d{2,4}\b`),
	// Month and year only: "December 2025".
	regexp.MustCompile(`(?i)\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\w*\.?\s+\d{4}\b`),
}

// genericDatePatterns catch looser business-date shapes. They are too
// noisy for milestone extraction and are used only for batch-stage date
// counting, on top of datePatterns.
var genericDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bQ[1-4]\s+\d{4}\b`),
	regexp.MustCompile(`(?i)\b(?:FY|CY)\s*\d{2,4}\b`),
	regexp.MustCompile(`(?i)\b(?:early|mid|late)\s+20\d{2}\b`),
	regexp.MustCompile(`(?i)\b(?:spring|summer|fall|autumn|winter)\s+20\d{2}\b`),
	regexp.MustCompile(`\b20\d{2}\b`),
}

// dateHit is one resolved milestone value with its position in the text.
type dateHit struct {
	value string
	pos   int
}

// findKindDates scans text with the rule table and returns at most one
// hit per kind. Anchors without a date in their span are skipped;
// malformed snippets never fail, they simply do not match.
func findKindDates(text string) map[types.DateKind]dateHit {
	hits := make(map[types.DateKind]dateHit)

	for _, rule := range Rules {
		if _, done := hits[rule.Kind]; done {
			continue
		}
		for _, loc := range rule.Anchor.FindAllStringIndex(text, -1) {
			span := text[loc[1]:min(loc[1]+anchorSpan, len(text))]
			value, offset := firstDate(span)
			if value == "" {
				continue
			}
			hits[rule.Kind] = dateHit{value: value, pos: loc[1] + offset}
			break
		}
	}
	return hits
}

// firstDate returns the first date in span, trying each date-format
// pattern in order.
func firstDate(span string) (string, int) {
	for _, p := range datePatterns {
		if loc := p.FindStringIndex(span); loc != nil {
			return span[loc[0]:loc[1]], loc[0]
		}
	}
	return "", 0
}

// CountDates counts distinct date-like tokens in text across all
// patterns, merging matches closer than 10 characters. The batch stage
// uses it to report per-file extraction outcomes.
func CountDates(text string) int {
	var positions []int
	patterns := append(append([]*regexp.Regexp{}, datePatterns...), genericDatePatterns...)

	count := 0
	for _, p := range patterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			near := false
			for _, pos := range positions {
				if abs(loc[0]-pos) < 10 {
					near = true
					break
				}
			}
			if near {
				continue
			}
			positions = append(positions, loc[0])
			count++
		}
	}
	return count
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
