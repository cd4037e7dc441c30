// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/eol-engine/pkg/types"
)

func testConfig() types.FetcherConfig {
	return types.FetcherConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   2 * time.Second,
			UserAgent: "eol-engine-test/0.1",
		},
		MaxAttempts:  3,
		RetryBackoff: time.Millisecond,
	}
}

func testTarget() types.QueryTarget {
	return types.QueryTarget{SourceID: "test", Kind: types.TargetSearchEngine}
}

func TestFetchSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>System x3650 M5</html>"))
	}))
	defer ts.Close()

	c := New(testConfig())
	res := c.Fetch(context.Background(), testTarget(), ts.URL)

	assert.Equal(t, types.FetchOK, res.Status)
	assert.Equal(t, http.StatusOK, res.HTTPCode)
	assert.Contains(t, string(res.Body), "x3650")
	assert.True(t, res.OK())
}

func TestFetchRetriesExhausted(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c := New(testConfig())
	res := c.Fetch(context.Background(), testTarget(), ts.URL)

	// Exactly 3 attempts, never a 4th.
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, types.FetchHTTPError, res.Status)
	assert.Equal(t, http.StatusServiceUnavailable, res.HTTPCode)
	assert.False(t, res.OK())
}

func TestFetchRetriesThenSucceeds(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer ts.Close()

	c := New(testConfig())
	res := c.Fetch(context.Background(), testTarget(), ts.URL)

	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, types.FetchOK, res.Status)
	assert.Equal(t, "recovered", string(res.Body))
}

func TestFetchNonRetryableHTTPError(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	c := New(testConfig())
	res := c.Fetch(context.Background(), testTarget(), ts.URL)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "4xx other than 429 must not be retried")
	assert.Equal(t, types.FetchHTTPError, res.Status)
	assert.Equal(t, http.StatusNotFound, res.HTTPCode)
}

func TestFetchTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer ts.Close()

	cfg := testConfig()
	cfg.Timeout = 50 * time.Millisecond
	cfg.MaxAttempts = 1
	c := New(cfg)

	res := c.Fetch(context.Background(), testTarget(), ts.URL)

	assert.Equal(t, types.FetchTimeout, res.Status)
	assert.Error(t, res.Err)
}

func TestFetchContextCancelledDuringBackoff(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	cfg := testConfig()
	cfg.RetryBackoff = time.Hour
	c := New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	res := c.Fetch(ctx, testTarget(), ts.URL)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, types.FetchConnError, res.Status)
	assert.ErrorIs(t, res.Err, context.Canceled)
}

func TestFetchConnectionError(t *testing.T) {
	c := New(testConfig())
	// Reserved port with nothing listening.
	res := c.Fetch(context.Background(), testTarget(), "http://127.0.0.1:1/")

	assert.False(t, res.OK())
	assert.Contains(t, []types.FetchStatus{types.FetchConnError, types.FetchTimeout}, res.Status)
}

func TestFetchSendsBrowserHeaders(t *testing.T) {
	c := New(testConfig())
	httpmock.ActivateNonDefault(c.http)
	defer httpmock.DeactivateAndReset()

	var gotUA, gotAccept, gotLang string
	httpmock.RegisterResponder(http.MethodGet, "https://example.com/support",
		func(req *http.Request) (*http.Response, error) {
			gotUA = req.Header.Get("User-Agent")
			gotAccept = req.Header.Get("Accept")
			gotLang = req.Header.Get("Accept-Language")
			return httpmock.NewStringResponse(http.StatusOK, "ok"), nil
		})

	res := c.Fetch(context.Background(), testTarget(), "https://example.com/support")
	require.Equal(t, types.FetchOK, res.Status)

	assert.Equal(t, "eol-engine-test/0.1", gotUA)
	assert.Contains(t, gotAccept, "text/html")
	assert.Contains(t, gotLang, "en-US")
}

func TestFetchRetriesOn429(t *testing.T) {
	c := New(testConfig())
	httpmock.ActivateNonDefault(c.http)
	defer httpmock.DeactivateAndReset()

	var calls int32
	httpmock.RegisterResponder(http.MethodGet, "https://example.com/rate-limited",
		func(_ *http.Request) (*http.Response, error) {
			if atomic.AddInt32(&calls, 1) < 3 {
				return httpmock.NewStringResponse(http.StatusTooManyRequests, ""), nil
			}
			return httpmock.NewStringResponse(http.StatusOK, "finally"), nil
		})

	res := c.Fetch(context.Background(), testTarget(), "https://example.com/rate-limited")

	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, types.FetchOK, res.Status)
	assert.Equal(t, "finally", string(res.Body))
}
