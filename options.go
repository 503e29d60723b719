package codelens

import (
	"net/http"
	"time"

	"github.com/yksanjo/codelens-cli/internal/config"
)

// scanConfig holds the resolved configuration for a scan.
type scanConfig struct {
	serverURL   string
	timeout     time.Duration
	concurrency int
	extensions  []string
	language    string
	progress    ProgressFunc
	httpClient  *http.Client
}

// Option configures a scan, explain, or health operation.
type Option func(*scanConfig)

func applyOpts(opts []Option) *scanConfig {
	cfg := &scanConfig{
		serverURL:  config.DefaultServerURL,
		extensions: config.DefaultExtensions,
	}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

// WithServerURL sets the analysis service address (default
// http://localhost:3000).
func WithServerURL(url string) Option {
	return func(c *scanConfig) {
		c.serverURL = url
	}
}

// WithTimeout bounds each request to the service.
func WithTimeout(d time.Duration) Option {
	return func(c *scanConfig) {
		c.timeout = d
	}
}

// WithConcurrency bounds the number of in-flight analysis requests.
func WithConcurrency(n int) Option {
	return func(c *scanConfig) {
		c.concurrency = n
	}
}

// WithExtensions narrows directory scans to the given file extensions.
// Entries are normalized to lowercase dot-prefixed form.
func WithExtensions(exts ...string) Option {
	return func(c *scanConfig) {
		if normalized := config.NormalizeExtensions(exts); len(normalized) > 0 {
			c.extensions = normalized
		}
	}
}

// WithLanguage sets a language hint sent with every request.
func WithLanguage(lang string) Option {
	return func(c *scanConfig) {
		c.language = lang
	}
}

// WithProgress registers a callback invoked as files settle during a scan.
func WithProgress(fn ProgressFunc) Option {
	return func(c *scanConfig) {
		c.progress = fn
	}
}

// WithHTTPClient replaces the underlying http.Client. Intended for tests
// that need to control the transport; WithTimeout is ignored when set.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *scanConfig) {
		c.httpClient = hc
	}
}
