// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/eol-engine/pkg/types"
)

func TestAggregateZeroCandidates(t *testing.T) {
	record := Aggregate("IBM System x3650 M5", nil)

	assert.Equal(t, "IBM System x3650 M5", record.Model)
	assert.Empty(t, record.VendorName)
	assert.Empty(t, record.EndOfSales)
	assert.Empty(t, record.EndOfLife)
	assert.Empty(t, record.EndOfService)
	assert.Empty(t, record.URL)
	assert.Empty(t, record.Filename)
	assert.Zero(t, record.CandidateCount)
	assert.False(t, record.HasDates())
}

func TestAggregateHighConfidenceWinsEveryKind(t *testing.T) {
	candidates := []types.Candidate{
		{
			SourceURL:  "https://search.example.com/a",
			SourceKind: types.TargetSearchEngine,
			Confidence: types.ConfidenceLow,
			Dates: map[types.DateKind]string{
				types.EndOfLife:  "01/01/2020",
				types.EndOfSales: "01/01/2019",
			},
		},
		{
			SourceURL:  "https://docs.example.com/b",
			SourceKind: types.TargetVendorDoc,
			Confidence: types.ConfidenceHigh,
			Dates: map[types.DateKind]string{
				types.EndOfLife:    "12/31/2025",
				types.EndOfService: "12/31/2028",
			},
		},
		{
			SourceURL:  "https://search.example.com/c",
			SourceKind: types.TargetSearchEngine,
			Confidence: types.ConfidenceMedium,
			Dates: map[types.DateKind]string{
				types.EndOfLife: "06/06/2022",
			},
		},
	}

	record := Aggregate("x3650", candidates)

	// The high-confidence candidate supplies every kind it has.
	assert.Equal(t, "12/31/2025", record.EndOfLife)
	assert.Equal(t, "12/31/2028", record.EndOfService)
	// Kinds it lacks come from the remaining candidates.
	assert.Equal(t, "01/01/2019", record.EndOfSales)
}

func TestAggregateTieBrokenBySourcePrecedence(t *testing.T) {
	candidates := []types.Candidate{
		{
			SourceURL:  "https://search.example.com/result",
			SourceKind: types.TargetSearchEngine,
			Confidence: types.ConfidenceMedium,
			Dates:      map[types.DateKind]string{types.EndOfLife: "01/01/2024"},
		},
		{
			SourceURL:  "https://support.example.com/page",
			SourceKind: types.TargetVendorSupport,
			Confidence: types.ConfidenceMedium,
			Dates:      map[types.DateKind]string{types.EndOfLife: "02/02/2024"},
		},
		{
			SourceURL:  "https://docs.example.com/lifecycle",
			SourceKind: types.TargetVendorDoc,
			Confidence: types.ConfidenceMedium,
			Dates:      map[types.DateKind]string{types.EndOfLife: "03/03/2024"},
		},
	}

	record := Aggregate("x3650", candidates)

	assert.Equal(t, "03/03/2024", record.EndOfLife, "vendor documentation outranks support and search results")
}

func TestAggregateTieBrokenByFirstSeen(t *testing.T) {
	candidates := []types.Candidate{
		{
			SourceKind: types.TargetSearchEngine,
			Confidence: types.ConfidenceMedium,
			Dates:      map[types.DateKind]string{types.EndOfLife: "01/01/2024"},
		},
		{
			SourceKind: types.TargetSearchEngine,
			Confidence: types.ConfidenceMedium,
			Dates:      map[types.DateKind]string{types.EndOfLife: "02/02/2024"},
		},
	}

	record := Aggregate("x3650", candidates)

	assert.Equal(t, "01/01/2024", record.EndOfLife)
}

func TestAggregateVendorFirstKnownWins(t *testing.T) {
	candidates := []types.Candidate{
		{Vendor: types.VendorUnknown, Confidence: types.ConfidenceLow,
			Dates: map[types.DateKind]string{types.EndOfLife: "01/01/2024"}},
		{Vendor: "IBM", Confidence: types.ConfidenceLow,
			Dates: map[types.DateKind]string{types.EndOfSales: "01/01/2023"}},
		{Vendor: "Dell", Confidence: types.ConfidenceHigh,
			Dates: map[types.DateKind]string{types.EndOfService: "01/01/2026"}},
	}

	record := Aggregate("x3650", candidates)

	assert.Equal(t, "IBM", record.VendorName)
}

func TestAggregateAllVendorsUnknown(t *testing.T) {
	candidates := []types.Candidate{
		{Vendor: types.VendorUnknown, Dates: map[types.DateKind]string{types.EndOfLife: "01/01/2024"}},
	}

	record := Aggregate("x3650", candidates)
	assert.Empty(t, record.VendorName)
}

func TestAggregateWinningURLMostFields(t *testing.T) {
	candidates := []types.Candidate{
		{
			SourceURL:  "https://a.example.com",
			Filename:   "Scrap_a.txt",
			Confidence: types.ConfidenceHigh,
			Dates:      map[types.DateKind]string{types.EndOfLife: "01/01/2024"},
		},
		{
			SourceURL:  "https://b.example.com",
			Filename:   "Scrap_b.txt",
			Confidence: types.ConfidenceLow,
			Dates: map[types.DateKind]string{
				types.EndOfSales:   "01/01/2023",
				types.EndOfService: "01/01/2026",
			},
		},
	}

	record := Aggregate("x3650", candidates)

	assert.Equal(t, "https://b.example.com", record.URL)
	assert.Equal(t, "Scrap_b.txt", record.Filename)
	assert.Equal(t, 2, record.CandidateCount)
}

func TestAggregateWinningURLTieByConfidence(t *testing.T) {
	candidates := []types.Candidate{
		{
			SourceURL:  "https://low.example.com",
			Confidence: types.ConfidenceLow,
			Dates:      map[types.DateKind]string{types.EndOfLife: "01/01/2024"},
		},
		{
			SourceURL:  "https://high.example.com",
			Confidence: types.ConfidenceHigh,
			Dates:      map[types.DateKind]string{types.EndOfSales: "01/01/2023"},
		},
	}

	record := Aggregate("x3650", candidates)
	require.Equal(t, "https://high.example.com", record.URL)
}
