package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	codelens "github.com/yksanjo/codelens-cli"
	"github.com/yksanjo/codelens-cli/internal/config"
	"github.com/yksanjo/codelens-cli/internal/output"
)

var (
	flagExplainFile string
	flagExplainCode string
	flagExplainLang string
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Get a natural-language explanation of a piece of code",
	Args:  cobra.NoArgs,
	RunE:  runExplain,
}

func init() {
	explainCmd.Flags().StringVarP(&flagExplainFile, "file", "f", "", "Explain the contents of a file")
	explainCmd.Flags().StringVarP(&flagExplainCode, "code", "c", "", "Explain a code snippet passed inline")
	explainCmd.Flags().StringVarP(&flagExplainLang, "language", "l", "", "Language hint sent with the request")
	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	if (flagExplainFile == "") == (flagExplainCode == "") {
		return fmt.Errorf("exactly one of --file or --code is required")
	}

	code := flagExplainCode
	if flagExplainFile != "" {
		data, err := os.ReadFile(flagExplainFile)
		if err != nil {
			return fmt.Errorf("reading %s: %w", flagExplainFile, err)
		}
		code = string(data)
	}

	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	opts := []codelens.Option{
		codelens.WithServerURL(resolveServerURL(cfg)),
		codelens.WithTimeout(resolveTimeout(cmd, cfg)),
	}
	if flagExplainLang != "" {
		opts = append(opts, codelens.WithLanguage(flagExplainLang))
	}

	ctx, cancel := contextWithInterrupt()
	defer cancel()

	explanation, err := codelens.Explain(ctx, code, opts...)
	if err != nil {
		return fmt.Errorf("explain failed: %w", err)
	}

	w := cmd.OutOrStdout()

	if strings.ToLower(flagFormat) == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]string{"explanation": explanation})
	}

	renderer := &output.ExplanationRenderer{NoColor: flagNoColor || os.Getenv("NO_COLOR") != ""}
	return renderer.Render(w, []byte(explanation))
}
