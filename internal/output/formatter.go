// Package output formats scan reports for terminal (ANSI), JSON, SARIF,
// and Markdown output, and renders explanation text returned by the
// analysis service.
package output

import (
	"io"

	"github.com/yksanjo/codelens-cli/internal/types"
)

// Formatter is the interface for outputting scan reports.
type Formatter interface {
	Format(w io.Writer, r *types.Report) error
}
