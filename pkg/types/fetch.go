// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// TargetKind classifies a query target by how trustworthy its lifecycle
// statements are. Vendor documentation outranks support pages, which
// outrank search-engine result pages.
type TargetKind string

const (
	TargetSearchEngine  TargetKind = "search-engine"
	TargetVendorSupport TargetKind = "vendor-support"
	TargetVendorDoc     TargetKind = "vendor-doc"
)

// Precedence returns the ordering weight of the kind for aggregation
// tie-breaking. Higher wins.
func (k TargetKind) Precedence() int {
	switch k {
	case TargetVendorDoc:
		return 3
	case TargetVendorSupport:
		return 2
	case TargetSearchEngine:
		return 1
	}
	return 0
}

// QueryTarget is one configured endpoint queried per model. Targets are
// static configuration and never mutated at runtime.
type QueryTarget struct {
	// SourceID is a short stable identifier used in output file names
	// (e.g. "duckduckgo", "ibm_support").
	SourceID string `json:"source_id" yaml:"source_id"`

	// URLTemplate contains a %s placeholder for the escaped query.
	URLTemplate string `json:"url_template" yaml:"url_template"`

	Kind TargetKind `json:"kind" yaml:"kind"`
}

// FetchStatus is the typed outcome of one fetch. Failure is always a
// status, never a raised fault; callers continue the run after any
// single fetch fails.
type FetchStatus string

const (
	FetchOK        FetchStatus = "ok"
	FetchHTTPError FetchStatus = "http_error"
	FetchTimeout   FetchStatus = "timeout"
	FetchSSLError  FetchStatus = "ssl_error"
	FetchConnError FetchStatus = "connection_error"
)

// FetchResult holds the outcome of fetching one target for one model.
// It is immutable once returned and owned solely by the caller that
// requested it.
type FetchResult struct {
	Target QueryTarget

	// URL is the fully templated URL that was fetched.
	URL string

	Status FetchStatus

	// HTTPCode is set when Status is FetchHTTPError, and for FetchOK.
	HTTPCode int

	// Body is the raw response body on success, nil otherwise.
	Body []byte

	Elapsed time.Duration

	// Err carries the underlying error for logging; nil on success.
	Err error
}

// OK reports whether the fetch produced a usable body.
func (r FetchResult) OK() bool {
	return r.Status == FetchOK
}
