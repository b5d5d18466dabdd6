package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const defaultTimeout = 20 * time.Second

// Client is the shared HTTP helper for collector adapters. It applies a
// per-call timeout and an advisory minimum interval between calls, which
// keeps the pipeline inside external API quotas. A timed-out or failed
// call is that single call failing; callers decide what to skip.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient builds a client with the given per-call timeout and minimum
// interval between requests. Zero values fall back to a 20s timeout and
// no rate limit.
func NewClient(timeout, minInterval time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if minInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(minInterval), 1)
	}

	return &Client{
		http:    &http.Client{Timeout: timeout},
		limiter: limiter,
	}
}

// Do issues a GET with the query parameters and headers applied. The
// caller owns the response body.
func (c *Client) Do(ctx context.Context, rawURL string, params url.Values, header http.Header) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if params != nil {
		req.URL.RawQuery = params.Encode()
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", "insightiq/1.0")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", rawURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("request %s: unexpected status %s", rawURL, resp.Status)
	}

	return resp, nil
}

// GetJSON issues a GET and decodes the JSON response into v.
func (c *Client) GetJSON(ctx context.Context, rawURL string, params url.Values, header http.Header, v any) error {
	resp, err := c.Do(ctx, rawURL, params, header)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response from %s: %w", rawURL, err)
	}

	return nil
}
