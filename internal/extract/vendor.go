// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/eol-engine/pkg/types"
)

// vendorRule maps a word-bounded vendor token to its canonical name.
type vendorRule struct {
	name    string
	pattern *regexp.Regexp
}

// vendorRules list the known hardware vendors in match order.
var vendorRules = []vendorRule{
	{"IBM", regexp.MustCompile(`(?i)\bibm\b`)},
	{"Lenovo", regexp.MustCompile(`(?i)\blenovo\b`)},
	{"Dell", regexp.MustCompile(`(?i)\bdell\b`)},
	{"HP/HPE", regexp.MustCompile(`(?i)\bhpe?\b|\bhewlett[\s-]?packard\b`)},
	{"Cisco", regexp.MustCompile(`(?i)\bcisco\b`)},
	{"Oracle", regexp.MustCompile(`(?i)\boracle\b|\bsun\s+microsystems\b`)},
}

// detectVendor returns the canonical vendor name and the position of
// the match nearest to the model string in text. A vendor token inside
// the model name itself wins outright. Absence of a match is not a
// failure; it yields VendorUnknown and position -1.
func detectVendor(text, model string) (string, int) {
	for _, rule := range vendorRules {
		if rule.pattern.MatchString(model) {
			pos := -1
			if loc := rule.pattern.FindStringIndex(text); loc != nil {
				pos = loc[0]
			}
			return rule.name, pos
		}
	}

	modelPos := strings.Index(strings.ToLower(text), strings.ToLower(model))

	bestName := types.VendorUnknown
	bestPos := -1
	bestDist := -1
	for _, rule := range vendorRules {
		for _, loc := range rule.pattern.FindAllStringIndex(text, -1) {
			dist := loc[0]
			if modelPos >= 0 {
				dist = abs(loc[0] - modelPos)
			}
			if bestDist < 0 || dist < bestDist {
				bestName = rule.name
				bestPos = loc[0]
				bestDist = dist
			}
		}
	}
	return bestName, bestPos
}
