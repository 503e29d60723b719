// Package report merges per-file outcomes into the aggregate scan report
// consumed by the output formatters. It performs no I/O.
package report

import (
	"github.com/yksanjo/codelens-cli/internal/types"
)

// Aggregate builds a Report from outcomes, preserving their order. The
// vulnerability total sums successful outcomes only; failed files are
// counted separately and contribute zero.
func Aggregate(outcomes []types.FileOutcome) *types.Report {
	r := &types.Report{
		Files:        outcomes,
		FilesScanned: len(outcomes),
	}
	for _, out := range outcomes {
		if out.Failed() {
			r.FilesFailed++
			continue
		}
		r.Total += len(out.Vulnerabilities)
	}
	return r
}

// MaxSeverity returns the highest severity present in the report, or
// SeverityUnknown when there are no vulnerabilities.
func MaxSeverity(r *types.Report) types.Severity {
	max := types.SeverityUnknown
	for _, out := range r.Files {
		for _, v := range out.Vulnerabilities {
			if v.Severity > max {
				max = v.Severity
			}
		}
	}
	return max
}

// CountBySeverity tallies vulnerabilities across all successful outcomes.
func CountBySeverity(r *types.Report) map[types.Severity]int {
	counts := map[types.Severity]int{}
	for _, out := range r.Files {
		for _, v := range out.Vulnerabilities {
			counts[v.Severity]++
		}
	}
	return counts
}
