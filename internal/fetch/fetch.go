// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch issues HTTP GET requests with browser-like headers,
// retry with exponential backoff, and typed failure classification.
package fetch

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/pdiddy/eol-engine/pkg/types"
)

// retryBaseDelay is the backoff base used when the config leaves
// RetryBackoff unset.
var retryBaseDelay = time.Second

// maxBodyBytes caps how much of a response body is read. Lifecycle
// pages are text; anything larger is truncated at the wire.
const maxBodyBytes = 2 << 20

// retryableStatus lists the HTTP status codes treated as transient.
var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Client wraps an http.Client configured for best-effort public
// scraping: TLS verification is disabled and certificate failures are
// reported as a soft ssl_error status rather than aborting the run.
// A Client is safe for concurrent use; no state is shared between
// in-flight fetches.
type Client struct {
	http        *http.Client
	userAgent   string
	maxAttempts int
	backoffBase time.Duration
}

// New builds a Client from cfg.
func New(cfg types.FetcherConfig) *Client {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = retryBaseDelay
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: true},
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Client{
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		userAgent:   cfg.UserAgent,
		maxAttempts: maxAttempts,
		backoffBase: backoff,
	}
}

// Fetch issues a GET against url for target, retrying transient
// failures up to the configured attempt budget with doubling backoff.
// The outcome is always a typed FetchResult; Fetch never panics and
// never returns a raised fault the caller must recover from.
func (c *Client) Fetch(ctx context.Context, target types.QueryTarget, url string) types.FetchResult {
	start := time.Now()
	result := types.FetchResult{Target: target, URL: url}

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := c.backoffBase << (attempt - 1)
			select {
			case <-ctx.Done():
				result.Status = types.FetchConnError
				result.Err = ctx.Err()
				result.Elapsed = time.Since(start)
				return result
			case <-time.After(backoff):
			}
		}

		status, code, body, err := c.attempt(ctx, url)
		result.Status = status
		result.HTTPCode = code
		result.Body = body
		result.Err = err

		if status == types.FetchOK {
			break
		}
		if !transient(status, code) {
			break
		}
	}

	result.Elapsed = time.Since(start)
	return result
}

// attempt performs a single GET and classifies its outcome.
func (c *Client) attempt(ctx context.Context, url string) (types.FetchStatus, int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return types.FetchConnError, 0, nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return classify(err), 0, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return types.FetchHTTPError, resp.StatusCode, nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return classify(err), resp.StatusCode, nil, err
	}
	return types.FetchOK, resp.StatusCode, body, nil
}

// setHeaders applies the fixed realistic header set.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}

// transient reports whether a failed attempt should be retried.
// Non-retryable HTTP errors (4xx other than 429) fail immediately, as
// do SSL failures, which no retry will fix.
func transient(status types.FetchStatus, code int) bool {
	switch status {
	case types.FetchTimeout, types.FetchConnError:
		return true
	case types.FetchHTTPError:
		return retryableStatus[code]
	}
	return false
}

// classify maps a transport error to a FetchStatus.
func classify(err error) types.FetchStatus {
	if err == nil {
		return types.FetchOK
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return types.FetchTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return types.FetchTimeout
	}

	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return types.FetchSSLError
	}
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return types.FetchSSLError
	}
	var unknownAuthErr x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthErr) {
		return types.FetchSSLError
	}
	var hostErr x509.HostnameError
	if errors.As(err, &hostErr) {
		return types.FetchSSLError
	}

	return types.FetchConnError
}
