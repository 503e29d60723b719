package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/yksanjo/codelens-cli/internal/report"
	"github.com/yksanjo/codelens-cli/internal/types"
)

// ANSI color codes
const (
	reset     = "\033[0m"
	bold      = "\033[1m"
	dim       = "\033[2m"
	underline = "\033[4m"
	red       = "\033[31m"
	yellow    = "\033[33m"
	blue      = "\033[34m"
	cyan      = "\033[36m"
)

const (
	barWidth     = 40
	lineWidth    = 72
	messageWidth = 56
)

// finding pairs a vulnerability with the file it was found in, for display.
type finding struct {
	file string
	vuln types.Vulnerability
}

// TerminalFormatter outputs the report in a triage-optimized format:
// severity dashboard, per-severity sections, analysis failures, and
// partial-coverage warnings.
type TerminalFormatter struct {
	NoColor bool
}

func (f *TerminalFormatter) color(code, text string) string {
	if f.NoColor {
		return text
	}
	return code + text + reset
}

func (f *TerminalFormatter) Format(w io.Writer, r *types.Report) error {
	f.printHeader(w, r)

	findings := flatten(r)
	if len(findings) == 0 {
		fmt.Fprintf(w, "\n  %s No vulnerabilities found.\n", f.color(cyan, "✔"))
	} else {
		f.printDashboard(w, report.CountBySeverity(r))

		for _, sev := range displayOrder {
			filtered := filterBySeverity(findings, sev)
			if len(filtered) > 0 {
				f.printSeveritySection(w, sev, filtered)
			}
		}

		f.printTopFiles(w, findings)
	}

	f.printFailures(w, r)
	f.printSkipped(w, r)
	f.printFooter(w, r)
	return nil
}

var displayOrder = []types.Severity{
	types.SeverityCritical,
	types.SeverityHigh,
	types.SeverityMedium,
	types.SeverityLow,
	types.SeverityUnknown,
}

func (f *TerminalFormatter) separator() string {
	return strings.Repeat("─", lineWidth)
}

func (f *TerminalFormatter) sectionHeader(title string) string {
	prefix := "── " + title + " "
	displayLen := utf8.RuneCountInString(prefix)
	remaining := max(lineWidth-displayLen, 0)
	return prefix + strings.Repeat("─", remaining)
}

func (f *TerminalFormatter) printHeader(w io.Writer, r *types.Report) {
	sep := f.separator()
	fmt.Fprintf(w, "\n%s\n", f.color(dim, sep))
	fmt.Fprintf(w, "  %s\n", f.color(bold, "CODELENS SCAN RESULTS"))

	parts := []string{}
	if r.Target != "" {
		parts = append(parts, fmt.Sprintf("Target: %s", r.Target))
	}
	parts = append(parts, fmt.Sprintf("%d files", r.FilesScanned))
	if r.Duration > 0 {
		parts = append(parts, fmt.Sprintf("%.2fs", r.Duration.Seconds()))
	}
	fmt.Fprintf(w, "  %s\n", strings.Join(parts, "  ·  "))
	fmt.Fprintf(w, "%s\n", f.color(dim, sep))
}

func (f *TerminalFormatter) printDashboard(w io.Writer, counts map[types.Severity]int) {
	peak := 0
	for _, c := range counts {
		if c > peak {
			peak = c
		}
	}
	if peak == 0 {
		return
	}

	fmt.Fprintln(w)
	total := 0
	for _, sev := range displayOrder {
		c := counts[sev]
		if c == 0 {
			continue
		}
		total += c
		label := fmt.Sprintf("  %-10s", sev.String())
		bar := f.renderBar(c, peak, barWidth, sev)
		fmt.Fprintf(w, "%s %s %4d\n", f.color(bold, label), bar, c)
	}
	fmt.Fprintf(w, "\n  %s\n", f.color(bold, fmt.Sprintf("%d vulnerabilities", total)))
}

func (f *TerminalFormatter) printSeveritySection(w io.Writer, sev types.Severity, findings []finding) {
	title := fmt.Sprintf("%s (%d)", sev.String(), len(findings))
	fmt.Fprintf(w, "\n%s\n", f.color(bold, f.sectionHeader(title)))

	for _, group := range groupByFile(findings) {
		fmt.Fprintf(w, "\n  %s\n", f.color(bold+underline, group.file))
		for _, fd := range group.findings {
			f.printFinding(w, fd.vuln)
		}
	}
}

func (f *TerminalFormatter) printFinding(w io.Writer, v types.Vulnerability) {
	icon := f.severityIcon(v.Severity)
	loc := fmt.Sprintf("line %d", v.Line)
	fmt.Fprintf(w, "    %s %s  %s\n", icon, f.color(cyan, fmt.Sprintf("%-9s", loc)), truncate(v.Message, messageWidth))
	if v.CWE != "" {
		fmt.Fprintf(w, "      %s %s\n", f.color(dim, "│"), f.color(dim, v.CWE))
	}
}

func (f *TerminalFormatter) printTopFiles(w io.Writer, findings []finding) {
	fileCounts := map[string]int{}
	for _, fd := range findings {
		fileCounts[fd.file]++
	}

	type fileCount struct {
		path  string
		count int
	}
	sorted := make([]fileCount, 0, len(fileCounts))
	for path, count := range fileCounts {
		sorted = append(sorted, fileCount{path, count})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].path < sorted[j].path
	})

	limit := min(len(sorted), 5)
	if limit == 0 {
		return
	}

	header := f.sectionHeader("TOP AFFECTED FILES")
	fmt.Fprintf(w, "\n%s\n\n", f.color(bold, header))

	for i := 0; i < limit; i++ {
		fmt.Fprintf(w, "  %4d  %s\n", sorted[i].count, sorted[i].path)
	}
}

func (f *TerminalFormatter) printFailures(w io.Writer, r *types.Report) {
	var failed []types.FileOutcome
	for _, out := range r.Files {
		if out.Failed() {
			failed = append(failed, out)
		}
	}
	if len(failed) == 0 {
		return
	}

	title := fmt.Sprintf("ANALYSIS FAILURES (%d)", len(failed))
	fmt.Fprintf(w, "\n%s\n\n", f.color(bold, f.sectionHeader(title)))
	for _, out := range failed {
		fmt.Fprintf(w, "    %s %s\n", f.color(red, "✖"), out.File)
		fmt.Fprintf(w, "      %s %s\n", f.color(dim, "│"), f.color(dim, truncate(out.Error, messageWidth)))
	}
}

func (f *TerminalFormatter) printSkipped(w io.Writer, r *types.Report) {
	if len(r.Skipped) == 0 {
		return
	}
	fmt.Fprintf(w, "\n  %s %d paths could not be read:\n", f.color(yellow, "⚠"), len(r.Skipped))
	for _, s := range r.Skipped {
		fmt.Fprintf(w, "    %s %s\n", s.Path, f.color(dim, "("+s.Cause+")"))
	}
}

func (f *TerminalFormatter) printFooter(w io.Writer, r *types.Report) {
	sep := f.separator()
	fmt.Fprintf(w, "\n%s\n", f.color(dim, sep))

	parts := []string{
		fmt.Sprintf("%d files scanned", r.FilesScanned),
		fmt.Sprintf("%d vulnerabilities", r.Total),
	}
	if r.FilesFailed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", r.FilesFailed))
	}
	if r.Duration > 0 {
		parts = append(parts, fmt.Sprintf("%.2fs", r.Duration.Seconds()))
	}

	fmt.Fprintf(w, "  %s\n", strings.Join(parts, " · "))
	fmt.Fprintf(w, "%s\n", f.color(dim, sep))
}

func (f *TerminalFormatter) severityIcon(sev types.Severity) string {
	switch sev {
	case types.SeverityCritical:
		return f.color(red+bold, "✖")
	case types.SeverityHigh:
		return f.color(red, "▲")
	case types.SeverityMedium:
		return f.color(yellow, "■")
	case types.SeverityLow:
		return f.color(blue, "●")
	default:
		return f.color(cyan, "○")
	}
}

func (f *TerminalFormatter) severityColor(sev types.Severity) string {
	switch sev {
	case types.SeverityCritical:
		return red + bold
	case types.SeverityHigh:
		return red
	case types.SeverityMedium:
		return yellow
	case types.SeverityLow:
		return blue
	default:
		return cyan
	}
}

func (f *TerminalFormatter) renderBar(count, peak, width int, sev types.Severity) string {
	if peak == 0 {
		return strings.Repeat("░", width)
	}
	filled := count * width / peak
	if filled == 0 && count > 0 {
		filled = 1
	}
	// Always keep at least 1 empty block so bar boundary is visible
	if filled >= width {
		filled = width - 1
	}
	empty := width - filled

	filledStr := strings.Repeat("█", filled)
	emptyStr := strings.Repeat("░", empty)
	return f.color(f.severityColor(sev), filledStr) + f.color(dim, emptyStr)
}

// flatten turns per-file outcomes into display findings, keeping file order.
func flatten(r *types.Report) []finding {
	var out []finding
	for _, fo := range r.Files {
		for _, v := range fo.Vulnerabilities {
			out = append(out, finding{file: fo.File, vuln: v})
		}
	}
	return out
}

func filterBySeverity(findings []finding, sev types.Severity) []finding {
	var result []finding
	for _, fd := range findings {
		if fd.vuln.Severity == sev {
			result = append(result, fd)
		}
	}
	return result
}

func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\t", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

type fileGroup struct {
	file     string
	findings []finding
}

func groupByFile(findings []finding) []fileGroup {
	order := make(map[string]int)
	grouped := make(map[string][]finding)
	for _, fd := range findings {
		if _, ok := order[fd.file]; !ok {
			order[fd.file] = len(order)
		}
		grouped[fd.file] = append(grouped[fd.file], fd)
	}
	result := make([]fileGroup, 0, len(grouped))
	for file, fds := range grouped {
		result = append(result, fileGroup{file: file, findings: fds})
	}
	sort.Slice(result, func(i, j int) bool {
		return order[result[i].file] < order[result[j].file]
	})
	return result
}
