// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package router

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/eol-engine/pkg/types"
)

// mockFetcher records calls and returns canned results per source ID.
type mockFetcher struct {
	mu       sync.Mutex
	calls    []string
	inflight int32
	maxSeen  int32
	results  map[string]types.FetchResult
}

func (m *mockFetcher) Fetch(_ context.Context, target types.QueryTarget, url string) types.FetchResult {
	cur := atomic.AddInt32(&m.inflight, 1)
	for {
		max := atomic.LoadInt32(&m.maxSeen)
		if cur <= max || atomic.CompareAndSwapInt32(&m.maxSeen, max, cur) {
			break
		}
	}
	defer atomic.AddInt32(&m.inflight, -1)

	m.mu.Lock()
	m.calls = append(m.calls, target.SourceID)
	m.mu.Unlock()

	if res, ok := m.results[target.SourceID]; ok {
		res.Target = target
		res.URL = url
		return res
	}
	return types.FetchResult{Target: target, URL: url, Status: types.FetchOK, HTTPCode: 200, Body: []byte("body")}
}

func testTargets() []types.QueryTarget {
	return []types.QueryTarget{
		{SourceID: "docs", URLTemplate: "https://docs.example.com/search?q=%s", Kind: types.TargetVendorDoc},
		{SourceID: "support", URLTemplate: "https://support.example.com/?q=%s", Kind: types.TargetVendorSupport},
		{SourceID: "engine", URLTemplate: "https://search.example.com/?q=%s", Kind: types.TargetSearchEngine},
	}
}

func TestBuildURL(t *testing.T) {
	engine := types.QueryTarget{URLTemplate: "https://search.example.com/?q=%s", Kind: types.TargetSearchEngine}
	got := BuildURL(engine, "IBM System x3650 M5")
	assert.Equal(t, "https://search.example.com/?q=IBM+System+x3650+M5+end+of+life+support+date", got)

	doc := types.QueryTarget{URLTemplate: "https://docs.example.com/search?q=%s", Kind: types.TargetVendorDoc}
	got = BuildURL(doc, "IBM System x3650 M5")
	assert.Equal(t, "https://docs.example.com/search?q=IBM+System+x3650+M5", got)
}

func TestSearchModelOneResultPerTargetInOrder(t *testing.T) {
	f := &mockFetcher{results: map[string]types.FetchResult{}}
	r, err := New(f, types.RouterConfig{Targets: testTargets(), Parallelism: 2})
	require.NoError(t, err)

	results := r.SearchModel(context.Background(), "IBM System x3650 M5")

	require.Len(t, results, 3)
	assert.Equal(t, "docs", results[0].Target.SourceID)
	assert.Equal(t, "support", results[1].Target.SourceID)
	assert.Equal(t, "engine", results[2].Target.SourceID)
}

func TestSearchModelContinuesPastFailures(t *testing.T) {
	f := &mockFetcher{results: map[string]types.FetchResult{
		"docs": {Status: types.FetchTimeout},
	}}
	r, err := New(f, types.RouterConfig{Targets: testTargets(), Parallelism: 1})
	require.NoError(t, err)

	results := r.SearchModel(context.Background(), "x3650")

	require.Len(t, results, 3)
	assert.Equal(t, types.FetchTimeout, results[0].Status)
	assert.Equal(t, types.FetchOK, results[1].Status)
	assert.Equal(t, types.FetchOK, results[2].Status)
	assert.Len(t, f.calls, 3, "a failed target must not stop the rest")
}

func TestSearchModelBoundedConcurrency(t *testing.T) {
	f := &mockFetcher{results: map[string]types.FetchResult{}}
	targets := testTargets()
	for i := 0; i < 6; i++ {
		targets = append(targets, types.QueryTarget{
			SourceID:    string(rune('a' + i)),
			URLTemplate: "https://mirror.example.com/" + string(rune('a'+i)) + "?q=%s",
			Kind:        types.TargetSearchEngine,
		})
	}
	r, err := New(f, types.RouterConfig{Targets: targets, Parallelism: 2})
	require.NoError(t, err)

	r.SearchModel(context.Background(), "x3650")

	assert.LessOrEqual(t, atomic.LoadInt32(&f.maxSeen), int32(2))
}

func TestSearchModelCachesRepeatedURLs(t *testing.T) {
	f := &mockFetcher{results: map[string]types.FetchResult{}}
	// Vendor-doc templates with no model placeholder resolve to the same
	// URL for every model.
	targets := []types.QueryTarget{
		{SourceID: "family_doc", URLTemplate: "https://docs.example.com/x-series%.0s", Kind: types.TargetVendorDoc},
	}
	r, err := New(f, types.RouterConfig{Targets: targets, Parallelism: 1})
	require.NoError(t, err)

	first := r.SearchModel(context.Background(), "x3650 M5")
	second := r.SearchModel(context.Background(), "x3550 M5")

	assert.Len(t, f.calls, 1, "identical URL must be fetched once per run")
	require.True(t, second[0].OK())
	assert.Equal(t, first[0].Body, second[0].Body)
	// Bodies are copies, not shared slices.
	second[0].Body[0] = 'X'
	assert.NotEqual(t, first[0].Body[0], second[0].Body[0])
}

func TestSearchModelCancelledMidModel(t *testing.T) {
	f := &mockFetcher{results: map[string]types.FetchResult{}}
	ctx, cancel := context.WithCancel(context.Background())

	r, err := New(f, types.RouterConfig{Targets: testTargets(), Parallelism: 1})
	require.NoError(t, err)

	cancel()
	results := r.SearchModel(ctx, "x3650")

	require.Len(t, results, 3)
	// Every unfetched target still yields a typed failure result.
	assert.Equal(t, types.FetchConnError, results[1].Status)
	assert.Equal(t, types.FetchConnError, results[2].Status)
	assert.NotEmpty(t, results[1].URL)
}

func TestSourceIDFromURL(t *testing.T) {
	assert.Equal(t, "ibm_com", SourceIDFromURL("https://www.ibm.com/support/pages/"))
	assert.Equal(t, "duckduckgo_com", SourceIDFromURL("https://duckduckgo.com/html/?q=x"))
	assert.Equal(t, "unknown_source", SourceIDFromURL("::not-a-url"))
}
