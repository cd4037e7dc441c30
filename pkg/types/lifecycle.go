// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for the eol-engine pipeline.
package types

// DateKind identifies one lifecycle milestone a vendor may declare for a
// hardware model.
type DateKind string

const (
	EndOfSales   DateKind = "end_of_sales"
	EndOfLife    DateKind = "end_of_life"
	EndOfService DateKind = "end_of_service"
)

// DateKinds lists all milestone kinds in resolution order.
var DateKinds = []DateKind{EndOfSales, EndOfLife, EndOfService}

// Confidence is a coarse ordinal signal for how strongly a Candidate's
// facts are anchored to the model and vendor in the source text. It is
// not a calibrated probability.
type Confidence int

const (
	ConfidenceLow Confidence = iota + 1
	ConfidenceMedium
	ConfidenceHigh
)

// String returns the lowercase label for the confidence level.
func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	}
	return "unknown"
}

// VendorUnknown is the vendor name recorded when no known vendor token
// appears near the model string.
const VendorUnknown = "unknown"

// Candidate holds one extraction attempt's proposed lifecycle facts for a
// model from a single source. Candidates are immutable once produced and
// are consumed by aggregation.
type Candidate struct {
	// Model is the hardware identifier the pipeline was asked about.
	Model string `json:"model" yaml:"model"`

	// SourceURL is the page the facts were extracted from.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// SourceKind records whether the page came from a search engine or
	// vendor documentation. Aggregation uses it to break confidence ties.
	SourceKind TargetKind `json:"source_kind" yaml:"source_kind"`

	// Filename is the Scrap_* file the source content was saved to, when
	// the pipeline persisted it. Empty for in-memory extraction.
	Filename string `json:"filename,omitempty" yaml:"filename,omitempty"`

	// Vendor is the detected vendor name, or VendorUnknown.
	Vendor string `json:"vendor" yaml:"vendor"`

	// Dates maps each recognized milestone kind to its raw date string,
	// exactly as it appeared in the source text.
	Dates map[DateKind]string `json:"dates" yaml:"dates"`

	// Confidence reflects vendor/model/date proximity in the source.
	Confidence Confidence `json:"confidence" yaml:"confidence"`

	// Snippet is the text window the dates were found in.
	Snippet string `json:"snippet,omitempty" yaml:"snippet,omitempty"`
}

// SummaryRecord is the single merged lifecycle fact set for one model.
// Every model that enters a run produces exactly one record, even when
// every source failed; unresolved fields are empty strings.
type SummaryRecord struct {
	Model        string `json:"model" yaml:"model"`
	VendorName   string `json:"vendor_name" yaml:"vendor_name"`
	EndOfSales   string `json:"end_of_sales" yaml:"end_of_sales"`
	EndOfLife    string `json:"end_of_life" yaml:"end_of_life"`
	EndOfService string `json:"end_of_service" yaml:"end_of_service"`

	// URL and Filename identify the winning source: the candidate that
	// contributed the most fields, highest confidence on ties.
	URL      string `json:"url" yaml:"url"`
	Filename string `json:"filename" yaml:"filename"`

	// CandidateCount is the number of candidates folded into this record.
	// It is diagnostic and not part of the summary JSON contract.
	CandidateCount int `json:"-" yaml:"candidate_count"`
}

// Date returns the record's value for kind, empty when unresolved.
func (r SummaryRecord) Date(kind DateKind) string {
	switch kind {
	case EndOfSales:
		return r.EndOfSales
	case EndOfLife:
		return r.EndOfLife
	case EndOfService:
		return r.EndOfService
	}
	return ""
}

// SetDate stores value under kind.
func (r *SummaryRecord) SetDate(kind DateKind, value string) {
	switch kind {
	case EndOfSales:
		r.EndOfSales = value
	case EndOfLife:
		r.EndOfLife = value
	case EndOfService:
		r.EndOfService = value
	}
}

// HasDates reports whether any milestone was resolved.
func (r SummaryRecord) HasDates() bool {
	return r.EndOfSales != "" || r.EndOfLife != "" || r.EndOfService != ""
}
