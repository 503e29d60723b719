package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/yksanjo/codelens-cli/internal/report"
	"github.com/yksanjo/codelens-cli/internal/types"
)

// MarkdownFormatter outputs the report as GitHub-flavored markdown,
// designed for GitHub Actions Job Summaries and PR comments.
type MarkdownFormatter struct{}

func (f *MarkdownFormatter) Format(w io.Writer, r *types.Report) error {
	findings := flatten(r)
	if len(findings) == 0 {
		f.printClean(w, r)
	} else {
		f.printSummary(w, r)
		f.printFindings(w, findings)
	}
	f.printFailures(w, r)
	f.printFooter(w)
	return nil
}

func (f *MarkdownFormatter) printClean(w io.Writer, r *types.Report) {
	fmt.Fprintf(w, "### :white_check_mark: CodeLens Security Scan — No vulnerabilities found\n\n")
	fmt.Fprintf(w, "> %d files scanned · %.2fs\n\n", r.FilesScanned, r.Duration.Seconds())
}

func (f *MarkdownFormatter) printSummary(w io.Writer, r *types.Report) {
	fmt.Fprintf(w, "### :rotating_light: CodeLens Security Scan — %d vulnerabilities\n\n", r.Total)

	fmt.Fprintf(w, "> **Target:** `%s` · %d files · %.2fs\n\n",
		r.Target, r.FilesScanned, r.Duration.Seconds())

	// Severity badges
	counts := report.CountBySeverity(r)
	var badges []string
	for _, sev := range displayOrder {
		c := counts[sev]
		if c == 0 {
			continue
		}
		badges = append(badges, fmt.Sprintf("%s **%d %s**", severityEmoji(sev), c, sev.String()))
	}
	fmt.Fprintf(w, "%s\n\n", strings.Join(badges, " · "))
}

func (f *MarkdownFormatter) printFindings(w io.Writer, findings []finding) {
	for _, sev := range displayOrder {
		filtered := filterBySeverity(findings, sev)
		if len(filtered) == 0 {
			continue
		}

		fmt.Fprintf(w, "<details%s>\n", openByDefault(sev))
		fmt.Fprintf(w, "<summary>%s <strong>%s (%d)</strong></summary>\n\n", severityEmoji(sev), sev.String(), len(filtered))

		fmt.Fprintf(w, "| File | Line | Message | CWE |\n")
		fmt.Fprintf(w, "|------|------|---------|-----|\n")

		for _, group := range groupByFile(filtered) {
			for _, fd := range group.findings {
				cwe := fd.vuln.CWE
				if cwe == "" {
					cwe = "—"
				}
				fmt.Fprintf(w, "| `%s` | L%d | %s | %s |\n",
					fd.file, fd.vuln.Line, escapeMarkdown(truncate(fd.vuln.Message, 80)), cwe)
			}
		}

		fmt.Fprintf(w, "\n</details>\n\n")
	}
}

func (f *MarkdownFormatter) printFailures(w io.Writer, r *types.Report) {
	if r.FilesFailed == 0 {
		return
	}
	fmt.Fprintf(w, "**:warning: %d files could not be analyzed:**\n\n", r.FilesFailed)
	for _, out := range r.Files {
		if out.Failed() {
			fmt.Fprintf(w, "- `%s` — %s\n", out.File, escapeMarkdown(truncate(out.Error, 80)))
		}
	}
	fmt.Fprintf(w, "\n")
}

func (f *MarkdownFormatter) printFooter(w io.Writer) {
	fmt.Fprintf(w, "---\n")
	fmt.Fprintf(w, "*Scanned by [CodeLens](https://github.com/yksanjo/codelens-cli) %s*\n", ToolVersion)
}

func severityEmoji(sev types.Severity) string {
	switch sev {
	case types.SeverityCritical:
		return ":red_circle:"
	case types.SeverityHigh:
		return ":orange_circle:"
	case types.SeverityMedium:
		return ":yellow_circle:"
	case types.SeverityLow:
		return ":blue_circle:"
	default:
		return ":white_circle:"
	}
}

func openByDefault(sev types.Severity) string {
	if sev == types.SeverityCritical || sev == types.SeverityHigh {
		return " open"
	}
	return ""
}

func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
