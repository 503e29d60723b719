// Package scanner drives the scan pipeline: it fans discovered files out to
// the analysis service through a bounded worker pool and collects one
// outcome per input file.
package scanner

import (
	"context"
	"os"
	"sync"

	"github.com/yksanjo/codelens-cli/internal/client"
	"github.com/yksanjo/codelens-cli/internal/config"
	"github.com/yksanjo/codelens-cli/internal/types"
)

// ProgressFunc is called once per settled file, from worker goroutines.
// done counts settled files including this one.
type ProgressFunc func(done, total int, outcome types.FileOutcome)

// Orchestrator coordinates concurrent per-file analysis requests. A failure
// in one file never aborts the others; every dispatched file settles into a
// FileOutcome.
type Orchestrator struct {
	client      *client.Client
	concurrency int
	language    string
	progress    ProgressFunc
}

// New creates an Orchestrator issuing requests through c with at most
// concurrency in-flight analyses. If concurrency <= 0, the default bound
// from config is used.
func New(c *client.Client, concurrency int) *Orchestrator {
	if concurrency <= 0 {
		concurrency = config.DefaultConcurrency
	}
	return &Orchestrator{client: c, concurrency: concurrency}
}

// SetLanguage sets an optional language hint sent with every request.
func (o *Orchestrator) SetLanguage(lang string) {
	o.language = lang
}

// SetProgress registers a callback invoked as files settle. The callback is
// observational only and must be safe for concurrent use.
func (o *Orchestrator) SetProgress(fn ProgressFunc) {
	o.progress = fn
}

// ScanFiles analyzes every file and returns one outcome per input file, in
// input order regardless of completion order. An empty input yields an
// empty outcome slice. Context cancellation settles unstarted files as
// failures rather than dropping them.
func (o *Orchestrator) ScanFiles(ctx context.Context, files []string) []types.FileOutcome {
	outcomes := make([]types.FileOutcome, len(files))
	if len(files) == 0 {
		return outcomes
	}

	jobs := make(chan int, len(files))
	for i := range files {
		jobs <- i
	}
	close(jobs)

	var (
		mu   sync.Mutex
		done int
		wg   sync.WaitGroup
	)

	workers := min(o.concurrency, len(files))
	for n := 0; n < workers; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = o.scanOne(ctx, files[i])
				if o.progress != nil {
					mu.Lock()
					done++
					n := done
					mu.Unlock()
					o.progress(n, len(files), outcomes[i])
				}
			}
		}()
	}

	wg.Wait()
	return outcomes
}

// scanOne reads one file and submits it for analysis. All failure modes
// (unreadable file, network error, timeout, non-2xx, malformed payload)
// collapse into a failed outcome carrying the cause.
func (o *Orchestrator) scanOne(ctx context.Context, path string) types.FileOutcome {
	if err := ctx.Err(); err != nil {
		return types.FileOutcome{File: path, Error: err.Error()}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return types.FileOutcome{File: path, Error: err.Error()}
	}
	vulns, err := o.client.ScanCode(ctx, client.ScanRequest{
		Code:     string(data),
		Language: o.language,
	})
	if err != nil {
		return types.FileOutcome{File: path, Error: err.Error()}
	}
	return types.FileOutcome{File: path, Vulnerabilities: vulns}
}
