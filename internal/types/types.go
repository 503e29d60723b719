// Package types defines shared data structures (Severity, Vulnerability,
// FileOutcome, Report) used across client, scanner, report, and output
// packages to prevent import cycles.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Severity represents the severity level of a vulnerability.
type Severity int

const (
	SeverityUnknown Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityHigh:
		return "HIGH"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityLow:
		return "LOW"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity converts a string to a Severity level. Used for flag
// validation; unknown values are an error here, unlike wire decoding.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CRITICAL":
		return SeverityCritical, nil
	case "HIGH":
		return SeverityHigh, nil
	case "MEDIUM":
		return SeverityMedium, nil
	case "LOW":
		return SeverityLow, nil
	default:
		return SeverityUnknown, fmt.Errorf("unknown severity: %q", s)
	}
}

// MarshalJSON serializes a Severity as the lowercase wire string.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(s.String()))
}

// UnmarshalJSON decodes a severity string from the analysis service. The
// server's vocabulary is not under our control, so unrecognized values rank
// lowest instead of failing the whole response.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	sev, err := ParseSeverity(raw)
	if err != nil {
		*s = SeverityUnknown
		return nil
	}
	*s = sev
	return nil
}

// Vulnerability is a single finding reported by the analysis service for
// one file.
type Vulnerability struct {
	Line     int      `json:"line"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	CWE      string   `json:"cwe,omitempty"`
}

// FileOutcome is the per-file unit of success or failure. A failed analysis
// carries the cause and no vulnerabilities, which is distinct from a
// successful analysis that found none.
type FileOutcome struct {
	File            string          `json:"file"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
	Error           string          `json:"error,omitempty"`
}

// Failed reports whether the analysis of this file failed.
func (o FileOutcome) Failed() bool {
	return o.Error != ""
}

// SkippedPath records a path that discovery could not traverse and why.
type SkippedPath struct {
	Path  string `json:"path"`
	Cause string `json:"cause"`
}

// Report holds the aggregated results of a scan. Files preserves the
// discovery order, not the order in which analyses completed.
type Report struct {
	Total        int           `json:"total_vulnerabilities"`
	Files        []FileOutcome `json:"files"`
	FilesScanned int           `json:"files_scanned"`
	FilesFailed  int           `json:"files_failed"`
	Skipped      []SkippedPath `json:"skipped_paths,omitempty"`
	Duration     time.Duration `json:"-"`
	Target       string        `json:"-"`
}

// Clean reports whether the scan found no vulnerabilities. Failed files do
// not affect cleanliness; they are surfaced separately.
func (r *Report) Clean() bool {
	return r.Total == 0
}

// AllFailed reports whether files were analyzed and every one failed.
func (r *Report) AllFailed() bool {
	return r.FilesScanned > 0 && r.FilesFailed == r.FilesScanned
}

// MarshalJSON implements custom JSON marshaling so Duration serializes as milliseconds.
func (r Report) MarshalJSON() ([]byte, error) {
	type Alias Report
	return json.Marshal(struct {
		Alias
		DurationMS int64 `json:"duration_ms"`
	}{
		Alias:      Alias(r),
		DurationMS: r.Duration.Milliseconds(),
	})
}
