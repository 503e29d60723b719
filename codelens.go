// Package codelens provides a public API for scanning local source trees
// with a remote CodeLens analysis service and for requesting code
// explanations.
//
// This is the library entry point. For the CLI tool, see cmd/codelens/.
package codelens

import (
	"context"
	"time"

	"github.com/yksanjo/codelens-cli/internal/client"
	"github.com/yksanjo/codelens-cli/internal/discovery"
	"github.com/yksanjo/codelens-cli/internal/report"
	"github.com/yksanjo/codelens-cli/internal/scanner"
	"github.com/yksanjo/codelens-cli/internal/types"
)

// Re-export core types from internal/types so consumers don't need to
// import internal packages.
type (
	Severity      = types.Severity
	Vulnerability = types.Vulnerability
	FileOutcome   = types.FileOutcome
	SkippedPath   = types.SkippedPath
	Report        = types.Report
)

const (
	SeverityUnknown  = types.SeverityUnknown
	SeverityLow      = types.SeverityLow
	SeverityMedium   = types.SeverityMedium
	SeverityHigh     = types.SeverityHigh
	SeverityCritical = types.SeverityCritical
)

// ParseSeverity converts a string to a Severity level.
var ParseSeverity = types.ParseSeverity

// ProgressFunc is called once per settled file during a scan.
type ProgressFunc = scanner.ProgressFunc

// Language describes one language supported by the service.
type Language = client.Language

// HealthStatus is the response of the service health endpoint.
type HealthStatus = client.HealthStatus

// ScanDir discovers source files under dir (filtered by the configured
// extensions) and analyzes each one. Per-file analysis failures are
// contained in the returned report; only a failure to enumerate the root
// is an error.
func ScanDir(ctx context.Context, dir string, opts ...Option) (*Report, error) {
	cfg := applyOpts(opts)
	start := time.Now()

	disc, err := discovery.Discover(dir, cfg.extensions)
	if err != nil {
		return nil, err
	}

	rep := report.Aggregate(cfg.orchestrator().ScanFiles(ctx, disc.Files))
	rep.Skipped = disc.Skipped
	rep.Target = dir
	rep.Duration = time.Since(start)
	return rep, nil
}

// ScanFile analyzes a single explicit file, bypassing discovery and
// extension filtering. A missing or unreadable path settles as a failed
// outcome in the report rather than an error.
func ScanFile(ctx context.Context, path string, opts ...Option) (*Report, error) {
	cfg := applyOpts(opts)
	start := time.Now()

	rep := report.Aggregate(cfg.orchestrator().ScanFiles(ctx, []string{path}))
	rep.Target = path
	rep.Duration = time.Since(start)
	return rep, nil
}

// ScanFiles analyzes a pre-built list of files, one outcome per file in
// input order. Used for scans whose file set comes from elsewhere than
// directory discovery (e.g. git-changed files).
func ScanFiles(ctx context.Context, files []string, opts ...Option) (*Report, error) {
	cfg := applyOpts(opts)
	start := time.Now()

	rep := report.Aggregate(cfg.orchestrator().ScanFiles(ctx, files))
	rep.Duration = time.Since(start)
	return rep, nil
}

// ScanContent analyzes inline content without touching disk. filename is
// used to label the outcome in the report.
func ScanContent(ctx context.Context, code, filename string, opts ...Option) (*Report, error) {
	cfg := applyOpts(opts)
	start := time.Now()

	outcome := types.FileOutcome{File: filename}
	vulns, err := cfg.client().ScanCode(ctx, client.ScanRequest{Code: code, Language: cfg.language})
	if err != nil {
		outcome.Error = err.Error()
	} else {
		outcome.Vulnerabilities = vulns
	}

	rep := report.Aggregate([]types.FileOutcome{outcome})
	rep.Target = filename
	rep.Duration = time.Since(start)
	return rep, nil
}

// Explain asks the service for a natural-language explanation of code.
func Explain(ctx context.Context, code string, opts ...Option) (string, error) {
	cfg := applyOpts(opts)
	return cfg.client().Explain(ctx, client.ScanRequest{Code: code, Language: cfg.language})
}

// Languages returns the languages the service can analyze.
func Languages(ctx context.Context, opts ...Option) ([]Language, error) {
	cfg := applyOpts(opts)
	return cfg.client().Languages(ctx)
}

// Health checks service availability and configuration.
func Health(ctx context.Context, opts ...Option) (*HealthStatus, error) {
	cfg := applyOpts(opts)
	return cfg.client().Health(ctx)
}

// --- internal helpers ---

func (c *scanConfig) client() *client.Client {
	if c.httpClient != nil {
		return client.NewWithHTTPClient(c.serverURL, c.httpClient)
	}
	return client.New(c.serverURL, c.timeout)
}

func (c *scanConfig) orchestrator() *scanner.Orchestrator {
	o := scanner.New(c.client(), c.concurrency)
	if c.language != "" {
		o.SetLanguage(c.language)
	}
	if c.progress != nil {
		o.SetProgress(c.progress)
	}
	return o
}
