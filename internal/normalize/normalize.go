// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns raw HTML responses into plain text suitable
// for pattern matching. All functions are pure: no I/O, deterministic
// for the same input.
package normalize

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// strippedSelectors are removed before text extraction; they carry
// navigation and code, never lifecycle statements.
const strippedSelectors = "script, style, nav, footer, aside, noscript"

var (
	tagRe        = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	specialRe    = regexp.MustCompile(`[^\w\s\-./:]`)
	nonWordRe    = regexp.MustCompile(`\W`)
)

// lifecycleAnchors are keywords used to center the text window on the
// region most likely to hold lifecycle information.
var lifecycleAnchors = []string{
	"end of life",
	"end of sales",
	"end of service",
	"end of support",
	"eol",
	"withdrawal",
	"discontinu",
}

// Normalize strips markup from a raw response body and collapses
// whitespace. Malformed markup degrades to best-effort tag stripping
// rather than an error.
func Normalize(raw []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return Clean(tagRe.ReplaceAllString(string(raw), " "))
	}
	doc.Find(strippedSelectors).Remove()
	return Clean(doc.Text())
}

// Clean collapses whitespace and drops characters that never occur in
// vendor names, model numbers, or dates.
func Clean(text string) string {
	text = specialRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Window returns a slice of text of at most 2*radius characters
// centered on the model string, or on the first lifecycle keyword when
// the model is absent, bounding downstream pattern-matching cost. Text
// shorter than the window is returned whole.
func Window(text, model string, radius int) string {
	if radius <= 0 || len(text) <= 2*radius {
		return text
	}

	lower := strings.ToLower(text)
	center := strings.Index(lower, strings.ToLower(model))
	if center < 0 {
		for _, anchor := range lifecycleAnchors {
			if i := strings.Index(lower, anchor); i >= 0 {
				center = i
				break
			}
		}
	}
	if center < 0 {
		return text[:2*radius]
	}

	start := center - radius
	if start < 0 {
		start = 0
	}
	end := start + 2*radius
	if end > len(text) {
		end = len(text)
		start = end - 2*radius
	}
	return text[start:end]
}

// ContainsModel reports whether the model string appears in text,
// ignoring case and punctuation. Pages failing this gate are treated
// as irrelevant and produce no candidates.
func ContainsModel(text, model string) bool {
	flatModel := nonWordRe.ReplaceAllString(strings.ToLower(model), "")
	if flatModel == "" {
		return false
	}
	flatText := nonWordRe.ReplaceAllString(strings.ToLower(text), "")
	return strings.Contains(flatText, flatModel)
}
