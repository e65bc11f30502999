package source

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// DefaultHTTPTimeout bounds a fetch when no timeout is configured.
const DefaultHTTPTimeout = 30 * time.Second

// HTTP fetches a resource with a GET request. Any non-2xx status is a
// failed fetch.
type HTTP struct {
	url    string
	client *http.Client
}

// NewHTTP returns an HTTP source with a client tuned like a short-lived
// static file fetch.
func NewHTTP(rawURL string, timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}

	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	return &HTTP{
		url: rawURL,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				DialContext:           dialer.DialContext,
				ForceAttemptHTTP2:     true,
				TLSHandshakeTimeout:   5 * time.Second,
				ResponseHeaderTimeout: 10 * time.Second,
				IdleConnTimeout:       90 * time.Second,
			},
		},
	}
}

// WithClient replaces the HTTP client, mostly for tests.
func (h *HTTP) WithClient(c *http.Client) *HTTP {
	h.client = c
	return h
}

// Fetch performs the GET. The caller closes the body.
func (h *HTTP) Fetch(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, image/svg+xml, text/plain, */*")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", h.url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		resp.Body.Close()
		return nil, fmt.Errorf("get %s: unexpected status %s", h.url, resp.Status)
	}

	return resp.Body, nil
}

// Location returns the URL.
func (h *HTTP) Location() string {
	return h.url
}
