// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package router builds the per-model list of query targets and fans
// fetches out across them with limited concurrency and politeness delays.
package router

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/semaphore"

	"github.com/pdiddy/eol-engine/pkg/types"
)

// searchQuerySuffix is appended to the model name for search-engine
// targets to bias results toward lifecycle pages.
const searchQuerySuffix = " end of life support date"

// DefaultTargets is the built-in source list: three general search
// engines plus the IBM support and documentation search endpoints.
var DefaultTargets = []types.QueryTarget{
	{SourceID: "ibm_docs", URLTemplate: "https://www.ibm.com/docs/search?q=%s", Kind: types.TargetVendorDoc},
	{SourceID: "ibm_support", URLTemplate: "https://www.ibm.com/support/pages/search?q=%s", Kind: types.TargetVendorSupport},
	{SourceID: "duckduckgo", URLTemplate: "https://duckduckgo.com/html/?q=%s", Kind: types.TargetSearchEngine},
	{SourceID: "bing", URLTemplate: "https://www.bing.com/search?q=%s", Kind: types.TargetSearchEngine},
	{SourceID: "yahoo", URLTemplate: "https://search.yahoo.com/search?p=%s", Kind: types.TargetSearchEngine},
}

// Fetcher is the fetching dependency. Satisfied by *fetch.Client;
// tests supply a mock.
type Fetcher interface {
	Fetch(ctx context.Context, target types.QueryTarget, url string) types.FetchResult
}

// Router queries every configured target for a model. A Router is
// reused across the whole run; SearchModel allocates nothing that
// outlives the call except the shared body cache.
type Router struct {
	fetcher Fetcher
	cfg     types.RouterConfig
	targets []types.QueryTarget
	sem     *semaphore.Weighted

	// cache holds successful bodies keyed by URL so vendor-doc pages
	// shared by models of one family are fetched once per run.
	cache *lru.Cache[string, []byte]
}

// New builds a Router. cfg.Targets overrides DefaultTargets when set.
func New(fetcher Fetcher, cfg types.RouterConfig) (*Router, error) {
	targets := cfg.Targets
	if len(targets) == 0 {
		targets = DefaultTargets
	}
	parallelism := cfg.Parallelism
	if parallelism <= 0 {
		parallelism = 3
	}

	cache, err := lru.New[string, []byte](128)
	if err != nil {
		return nil, fmt.Errorf("creating body cache: %w", err)
	}

	return &Router{
		fetcher: fetcher,
		cfg:     cfg,
		targets: targets,
		sem:     semaphore.NewWeighted(int64(parallelism)),
		cache:   cache,
	}, nil
}

// Targets returns the configured target list.
func (r *Router) Targets() []types.QueryTarget {
	return r.targets
}

// BuildURL templates target's URL with the escaped query for model.
// Search-engine targets get the lifecycle query phrase; vendor targets
// are queried with the bare model name.
func BuildURL(target types.QueryTarget, model string) string {
	query := model
	if target.Kind == types.TargetSearchEngine {
		query = model + searchQuerySuffix
	}
	return fmt.Sprintf(target.URLTemplate, url.QueryEscape(query))
}

// SearchModel fetches every target for model and returns one
// FetchResult per target, in target order. A failure on one target
// never prevents querying the rest; partial results are normal.
// Successive launches honor the politeness delay, and at most
// Parallelism fetches are in flight at once.
func (r *Router) SearchModel(ctx context.Context, model string) []types.FetchResult {
	results := make([]types.FetchResult, len(r.targets))

	var wg sync.WaitGroup
	for i, target := range r.targets {
		if i > 0 && !r.pause(ctx) {
			// Cancelled mid-model: mark the remaining targets without
			// fetching them.
			for j := i; j < len(r.targets); j++ {
				results[j] = types.FetchResult{
					Target: r.targets[j],
					URL:    BuildURL(r.targets[j], model),
					Status: types.FetchConnError,
					Err:    ctx.Err(),
				}
			}
			break
		}

		if err := r.sem.Acquire(ctx, 1); err != nil {
			results[i] = types.FetchResult{
				Target: target,
				URL:    BuildURL(target, model),
				Status: types.FetchConnError,
				Err:    err,
			}
			continue
		}

		wg.Add(1)
		go func(i int, target types.QueryTarget) {
			defer wg.Done()
			defer r.sem.Release(1)
			results[i] = r.fetchOne(ctx, target, model)
		}(i, target)
	}
	wg.Wait()

	return results
}

// fetchOne resolves one target, consulting the body cache first.
func (r *Router) fetchOne(ctx context.Context, target types.QueryTarget, model string) types.FetchResult {
	fetchURL := BuildURL(target, model)

	if body, ok := r.cache.Get(fetchURL); ok {
		// Copy so no body is shared between results.
		dup := make([]byte, len(body))
		copy(dup, body)
		return types.FetchResult{
			Target:   target,
			URL:      fetchURL,
			Status:   types.FetchOK,
			HTTPCode: 200,
			Body:     dup,
		}
	}

	res := r.fetcher.Fetch(ctx, target, fetchURL)
	if res.OK() && len(res.Body) > 0 {
		r.cache.Add(fetchURL, res.Body)
	}
	return res
}

// pause sleeps for the politeness delay plus jitter. It returns false
// when the context was cancelled during the wait.
func (r *Router) pause(ctx context.Context) bool {
	delay := r.cfg.RequestDelay
	if r.cfg.RequestJitter > 0 {
		delay += time.Duration(rand.Int63n(int64(r.cfg.RequestJitter)))
	}
	if delay <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(delay):
		return true
	}
}

// SourceIDFromURL derives a source identifier from a host name, for
// targets configured without one ("www.ibm.com" becomes "ibm_com").
func SourceIDFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "unknown_source"
	}
	host := strings.TrimPrefix(u.Host, "www.")
	return strings.ReplaceAll(host, ".", "_")
}
