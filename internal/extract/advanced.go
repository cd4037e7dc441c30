// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/eol-engine/pkg/types"
)

// maxChunkChars bounds one chunk of text scanned at a time. Roughly
// 2000 tokens at four characters per token.
const maxChunkChars = 8000

var sentenceSplitRe = regexp.MustCompile(`[.!?]+`)

// Advanced extraction chunks large texts at sentence boundaries and
// scans each chunk independently, so one page can yield several
// candidates with per-region confidence. Aggregation resolves the
// overlap.
type Advanced struct{}

// Name returns the mode label.
func (a *Advanced) Name() string { return string(types.ModeAdvanced) }

// Extract implements Strategy.
func (a *Advanced) Extract(in Input) []types.Candidate {
	var out []types.Candidate
	for _, chunk := range splitChunks(in.Text, maxChunkChars) {
		if cand, ok := scan(in, chunk); ok {
			out = append(out, cand)
		}
	}
	return out
}

// splitChunks splits text at sentence boundaries into pieces of at most
// maxChars. A single sentence longer than maxChars is emitted whole;
// the rule table tolerates oversized input, it is only slower.
func splitChunks(text string, maxChars int) []string {
	if len(text) <= maxChars {
		return []string{text}
	}

	sentences := sentenceSplitRe.Split(text, -1)
	var chunks []string
	var b strings.Builder

	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		if b.Len() > 0 && b.Len()+len(sentence)+2 > maxChars {
			chunks = append(chunks, b.String())
			b.Reset()
		}
		if b.Len() > 0 {
			b.WriteString(". ")
		}
		b.WriteString(sentence)
	}
	if b.Len() > 0 {
		chunks = append(chunks, b.String())
	}
	return chunks
}
