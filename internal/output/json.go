package output

import (
	"encoding/json"
	"io"

	"github.com/yksanjo/codelens-cli/internal/types"
)

// JSONFormatter outputs the full report as indented JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(w io.Writer, r *types.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
