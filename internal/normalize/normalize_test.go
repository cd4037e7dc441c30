// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStripsMarkup(t *testing.T) {
	raw := []byte(`<html><head><style>body { color: red; }</style>
<script>tracker();</script></head>
<body><nav>Home | Products</nav>
<p>IBM System x3650 M5   End of Life: 12/31/2025</p>
<footer>Copyright</footer></body></html>`)

	got := Normalize(raw)

	assert.Contains(t, got, "IBM System x3650 M5 End of Life: 12/31/2025")
	assert.NotContains(t, got, "tracker")
	assert.NotContains(t, got, "color: red")
	assert.NotContains(t, got, "Home | Products")
	assert.NotContains(t, got, "Copyright")
}

func TestNormalizeMalformedHTML(t *testing.T) {
	raw := []byte(`<p>End of Service <b>06/30/2026 <div><<<broken`)

	got := Normalize(raw)

	assert.Contains(t, got, "End of Service")
	assert.Contains(t, got, "06/30/2026")
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := []byte(`<html><body><p>Dell PowerEdge R740   withdrawal date: 2025-06-30</p></body></html>`)

	first := Normalize(raw)
	second := Normalize(raw)
	assert.Equal(t, first, second)

	// Normalizing already-plain text is a fixed point.
	assert.Equal(t, first, Clean(first))
}

func TestCleanCollapsesWhitespace(t *testing.T) {
	got := Clean("a\t\tb\n\n  c")
	assert.Equal(t, "a b c", got)
}

func TestWindowCentersOnModel(t *testing.T) {
	padding := strings.Repeat("x ", 500)
	text := padding + "IBM System x3650 M5 End of Life: 12/31/2025 " + padding

	got := Window(text, "IBM System x3650 M5", 100)

	assert.LessOrEqual(t, len(got), 200)
	assert.Contains(t, got, "x3650 M5")
	assert.Contains(t, got, "12/31/2025")
}

func TestWindowFallsBackToLifecycleAnchor(t *testing.T) {
	padding := strings.Repeat("y ", 500)
	text := padding + "product end of life announced for 2026" + strings.Repeat(" z", 500)

	got := Window(text, "model-not-present", 80)

	assert.LessOrEqual(t, len(got), 160)
	assert.Contains(t, got, "end of life")
}

func TestWindowShortTextReturnedWhole(t *testing.T) {
	text := "short page"
	assert.Equal(t, text, Window(text, "anything", 200))
}

func TestContainsModel(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		model string
		want  bool
	}{
		{"exact", "the IBM System x3650 M5 server", "IBM System x3650 M5", true},
		{"case and punctuation variance", "ibm system-x3650m5 overview", "IBM System x3650 M5", true},
		{"absent", "unrelated product page", "IBM System x3650 M5", false},
		{"empty model", "anything", "  ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsModel(tt.text, tt.model))
		})
	}
}
