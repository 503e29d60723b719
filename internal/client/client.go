// Package client implements the HTTP client for the CodeLens analysis
// service. It covers the four service endpoints: security scan, explain,
// language list, and health.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yksanjo/codelens-cli/internal/types"
)

// DefaultTimeout is applied when the caller does not set one.
const DefaultTimeout = 30 * time.Second

// ScanRequest is the request body for the scan and explain endpoints.
type ScanRequest struct {
	Code     string `json:"code"`
	Language string `json:"language,omitempty"`
}

// Language describes one language supported by the service.
type Language struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
}

// HealthStatus is the response of the service health endpoint.
type HealthStatus struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	AIConfigured bool   `json:"aiConfigured"`
}

// OK reports whether the service considers itself healthy.
func (h *HealthStatus) OK() bool {
	return h.Status == "ok"
}

// Client issues requests against a CodeLens service. The base URL is fixed
// at construction; the client holds no other state and is safe for
// concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the service at baseURL. timeout bounds each
// request; if it is <= 0, DefaultTimeout is used.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// NewWithHTTPClient creates a Client using the given http.Client. Intended
// for tests that need to control the transport.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// BaseURL returns the service address this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ScanCode submits one file's content for security analysis and returns the
// vulnerabilities found. A network error, timeout, non-2xx status, or
// malformed payload is returned as an error; the caller decides how to
// contain it.
func (c *Client) ScanCode(ctx context.Context, req ScanRequest) ([]types.Vulnerability, error) {
	var resp struct {
		Vulnerabilities []types.Vulnerability `json:"vulnerabilities"`
	}
	if err := c.postJSON(ctx, "/api/v1/security/scan", req, &resp); err != nil {
		return nil, err
	}
	if resp.Vulnerabilities == nil {
		resp.Vulnerabilities = []types.Vulnerability{}
	}
	return resp.Vulnerabilities, nil
}

// Explain asks the service for a natural-language explanation of the code.
func (c *Client) Explain(ctx context.Context, req ScanRequest) (string, error) {
	var resp struct {
		Explanation string `json:"explanation"`
	}
	if err := c.postJSON(ctx, "/api/v1/explain", req, &resp); err != nil {
		return "", err
	}
	return resp.Explanation, nil
}

// Languages returns the languages the service can analyze.
func (c *Client) Languages(ctx context.Context) ([]Language, error) {
	var resp struct {
		Languages []Language `json:"languages"`
	}
	if err := c.getJSON(ctx, "/api/v1/languages", &resp); err != nil {
		return nil, err
	}
	return resp.Languages, nil
}

// Health checks service availability and configuration.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var resp HealthStatus
	if err := c.getJSON(ctx, "/health", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("server returned %s for %s", resp.Status, req.URL.Path)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", req.URL.Path, err)
	}
	return nil
}
