package output_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yksanjo/codelens-cli/internal/output"
	"github.com/yksanjo/codelens-cli/internal/report"
	"github.com/yksanjo/codelens-cli/internal/types"
)

func sampleReport() *types.Report {
	r := report.Aggregate([]types.FileOutcome{
		{File: "src/auth.ts", Vulnerabilities: []types.Vulnerability{
			{Line: 12, Severity: types.SeverityCritical, Message: "SQL injection via string concatenation", CWE: "CWE-89"},
			{Line: 30, Severity: types.SeverityLow, Message: "weak random source"},
		}},
		{File: "src/ok.ts", Vulnerabilities: []types.Vulnerability{}},
		{File: "src/broken.ts", Error: "server returned 500 Internal Server Error for /api/v1/security/scan"},
	})
	r.Target = "src"
	r.Duration = 1200 * time.Millisecond
	return r
}

func TestTerminalFormatterClean(t *testing.T) {
	f := &output.TerminalFormatter{NoColor: true}
	var buf bytes.Buffer
	r := report.Aggregate(nil)
	r.Target = "empty"

	require.NoError(t, f.Format(&buf, r))
	out := buf.String()
	require.Contains(t, out, "No vulnerabilities found")
	require.Contains(t, out, "CODELENS SCAN RESULTS")
	require.Contains(t, out, "Target: empty")
	require.Contains(t, out, "0 files scanned")
}

func TestTerminalFormatterWithVulnerabilities(t *testing.T) {
	f := &output.TerminalFormatter{NoColor: true}
	var buf bytes.Buffer

	require.NoError(t, f.Format(&buf, sampleReport()))
	out := buf.String()
	require.Contains(t, out, "CRITICAL (1)")
	require.Contains(t, out, "LOW (1)")
	require.Contains(t, out, "src/auth.ts")
	require.Contains(t, out, "line 12")
	require.Contains(t, out, "SQL injection")
	require.Contains(t, out, "CWE-89")
	require.Contains(t, out, "2 vulnerabilities")
	require.Contains(t, out, "TOP AFFECTED FILES")
	require.NotContains(t, out, "src/ok.ts", "files with no findings get no section")
}

func TestTerminalFormatterFailedFilesSection(t *testing.T) {
	f := &output.TerminalFormatter{NoColor: true}
	var buf bytes.Buffer

	require.NoError(t, f.Format(&buf, sampleReport()))
	out := buf.String()
	require.Contains(t, out, "ANALYSIS FAILURES (1)")
	require.Contains(t, out, "src/broken.ts")
	require.Contains(t, out, "1 failed")
}

func TestTerminalFormatterSkippedPaths(t *testing.T) {
	f := &output.TerminalFormatter{NoColor: true}
	var buf bytes.Buffer
	r := report.Aggregate(nil)
	r.Skipped = []types.SkippedPath{{Path: "secret/", Cause: "permission denied"}}

	require.NoError(t, f.Format(&buf, r))
	out := buf.String()
	require.Contains(t, out, "1 paths could not be read")
	require.Contains(t, out, "secret/")
	require.Contains(t, out, "permission denied")
}

func TestTerminalFormatterNoColorHasNoEscapes(t *testing.T) {
	f := &output.TerminalFormatter{NoColor: true}
	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, sampleReport()))
	require.NotContains(t, buf.String(), "\033[")
}

func TestJSONFormatter(t *testing.T) {
	f := &output.JSONFormatter{}
	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, sampleReport()))

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	require.EqualValues(t, 2, parsed["total_vulnerabilities"])
	require.EqualValues(t, 3, parsed["files_scanned"])
	require.EqualValues(t, 1, parsed["files_failed"])
	require.EqualValues(t, 1200, parsed["duration_ms"])

	files := parsed["files"].([]any)
	require.Len(t, files, 3)
	first := files[0].(map[string]any)
	vulns := first["vulnerabilities"].([]any)
	v0 := vulns[0].(map[string]any)
	require.Equal(t, "critical", v0["severity"], "severity serializes in wire form")
}

func TestSARIFFormatter(t *testing.T) {
	f := &output.SARIFFormatter{}
	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, sampleReport()))

	var sarif map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &sarif))
	require.Equal(t, "2.1.0", sarif["version"])

	runs := sarif["runs"].([]any)
	require.Len(t, runs, 1)
	run := runs[0].(map[string]any)

	driver := run["tool"].(map[string]any)["driver"].(map[string]any)
	require.Equal(t, "codelens", driver["name"])

	results := run["results"].([]any)
	require.Len(t, results, 2, "failed files produce no SARIF results")

	first := results[0].(map[string]any)
	require.Equal(t, "CWE-89", first["ruleId"])
	require.Equal(t, "error", first["level"])

	second := results[1].(map[string]any)
	require.Equal(t, "codelens/finding", second["ruleId"], "findings without CWE use the fallback rule")
	require.Equal(t, "note", second["level"])
}

func TestMarkdownFormatter(t *testing.T) {
	f := &output.MarkdownFormatter{}
	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, sampleReport()))

	out := buf.String()
	require.Contains(t, out, "CodeLens Security Scan — 2 vulnerabilities")
	require.Contains(t, out, "**1 CRITICAL**")
	require.Contains(t, out, "| `src/auth.ts` | L12 |")
	require.Contains(t, out, "CWE-89")
	require.Contains(t, out, "1 files could not be analyzed")
	require.Contains(t, out, "`src/broken.ts`")
}

func TestMarkdownFormatterClean(t *testing.T) {
	f := &output.MarkdownFormatter{}
	var buf bytes.Buffer
	r := report.Aggregate([]types.FileOutcome{{File: "a.ts", Vulnerabilities: []types.Vulnerability{}}})

	require.NoError(t, f.Format(&buf, r))
	require.Contains(t, buf.String(), "No vulnerabilities found")
}

func TestExplanationRenderer(t *testing.T) {
	r := &output.ExplanationRenderer{NoColor: true}
	var buf bytes.Buffer
	src := []byte("# Summary\n\nThis function calls `eval` on user input.\n\n- taints `req.body`\n- reaches a sink\n\n```js\neval(input)\n```\n")

	require.NoError(t, r.Render(&buf, src))
	out := buf.String()
	require.Contains(t, out, "Summary")
	require.Contains(t, out, "This function calls eval on user input.")
	require.Contains(t, out, "• taints req.body")
	require.Contains(t, out, "    eval(input)")
	require.NotContains(t, out, "```", "fences are rendered, not echoed")
	require.NotContains(t, out, "# Summary", "heading markers are stripped")
}

func TestExplanationRendererColor(t *testing.T) {
	r := &output.ExplanationRenderer{}
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, []byte("plain `code` text")))
	require.Contains(t, buf.String(), "\033[36mcode\033[0m")
}
