package output

import (
	"encoding/json"
	"io"

	"github.com/yksanjo/codelens-cli/internal/types"
)

// ToolVersion is the codelens version reported in SARIF output.
var ToolVersion = "dev"

// fallbackRuleID keys findings the service did not classify with a CWE.
const fallbackRuleID = "codelens/finding"

// SARIFFormatter outputs the report in SARIF 2.1.0 format for GitHub Code
// Scanning. Findings are keyed by CWE identifier when the service provides
// one.
type SARIFFormatter struct{}

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool       sarifTool      `json:"tool"`
	Results    []sarifResult  `json:"results"`
	Properties map[string]any `json:"properties,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	ShortDescription sarifMessage       `json:"shortDescription"`
	DefaultConfig    sarifDefaultConfig `json:"defaultConfiguration"`
}

type sarifDefaultConfig struct {
	Level string `json:"level"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

func (f *SARIFFormatter) Format(w io.Writer, report *types.Report) error {
	// Collect unique rules in order
	ruleIndex := map[string]int{}
	var rules []sarifRule
	var results []sarifResult

	for _, out := range report.Files {
		for _, v := range out.Vulnerabilities {
			id := v.CWE
			if id == "" {
				id = fallbackRuleID
			}
			if _, ok := ruleIndex[id]; !ok {
				ruleIndex[id] = len(rules)
				rules = append(rules, sarifRule{
					ID:               id,
					Name:             id,
					ShortDescription: sarifMessage{Text: id},
					DefaultConfig:    sarifDefaultConfig{Level: severityToLevel(v.Severity)},
				})
			}
			results = append(results, sarifResult{
				RuleID:    id,
				RuleIndex: ruleIndex[id],
				Level:     severityToLevel(v.Severity),
				Message:   sarifMessage{Text: v.Message},
				Locations: []sarifLocation{
					{
						PhysicalLocation: sarifPhysicalLocation{
							ArtifactLocation: sarifArtifactLocation{URI: out.File},
							Region:           sarifRegion{StartLine: max(v.Line, 1)},
						},
					},
				},
			})
		}
	}

	log := sarifLog{
		Schema:  "https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:           "codelens",
						Version:        ToolVersion,
						InformationURI: "https://github.com/yksanjo/codelens-cli",
						Rules:          rules,
					},
				},
				Results: results,
				Properties: map[string]any{
					"files_scanned": report.FilesScanned,
					"files_failed":  report.FilesFailed,
					"duration_ms":   report.Duration.Milliseconds(),
				},
			},
		},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(log)
}

func severityToLevel(sev types.Severity) string {
	switch sev {
	case types.SeverityCritical:
		return "error"
	case types.SeverityHigh:
		return "warning"
	case types.SeverityMedium, types.SeverityLow:
		return "note"
	default:
		return "none"
	}
}
