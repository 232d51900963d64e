// Package registry confirms package installability against external
// registries and fetches version metadata.
//
// Three probes are supported: a primary CRAN-style lookup, a secondary
// snapshot lookup under a pinned snapshot version, and a VCS lookup for
// owner/repo-shaped names. The Validator cascades through them with
// short-circuit order; each probe is a single blocking call with no
// local retry, and results are cached only within one run, keyed by
// exact name.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a registry positively reports the
	// package does not exist.
	ErrNotFound = errors.New("package not found")

	// ErrNetwork is returned for transport failures (timeouts, connection
	// errors, 5xx and other unexpected statuses). For cascade purposes it
	// behaves like ErrNotFound but is logged distinctly.
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates an HTTP client with a standard timeout for
// registry requests. The transport timeout is the only cancellation
// beyond the caller's context.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// Client provides shared HTTP functionality for all registry probes.
type Client struct {
	http    *http.Client
	headers map[string]string
}

// NewClient creates a Client with optional default headers applied to
// every request. Pass nil for headers if none are needed.
func NewClient(headers map[string]string) *Client {
	return &Client{
		http:    NewHTTPClient(),
		headers: headers,
	}
}

// Get performs a single HTTP GET and JSON-decodes the response into v.
// Status codes are classified into the package sentinels: 404 becomes
// ErrNotFound, transport failures and unexpected statuses become
// ErrNetwork.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	body, err := c.doRequest(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrNetwork, url, err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
