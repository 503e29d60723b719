package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	codelens "github.com/yksanjo/codelens-cli"
	"github.com/yksanjo/codelens-cli/internal/config"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the languages the analysis service supports",
	Args:  cobra.NoArgs,
	RunE:  runLanguages,
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}

func runLanguages(cmd *cobra.Command, args []string) error {
	cfg, _ := config.Load(".")
	serverURL := resolveServerURL(cfg)

	opts := []codelens.Option{
		codelens.WithServerURL(serverURL),
		codelens.WithTimeout(resolveTimeout(cmd, cfg)),
	}

	ctx, cancel := contextWithInterrupt()
	defer cancel()

	langs, err := codelens.Languages(ctx, opts...)
	if err != nil {
		return fmt.Errorf("listing languages: %w (is the CodeLens server running at %s?)", err, serverURL)
	}

	w := cmd.OutOrStdout()

	if strings.ToLower(flagFormat) == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(langs)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "LANGUAGE\tEXTENSIONS\n")
	fmt.Fprintf(tw, "--------\t----------\n")
	for _, l := range langs {
		fmt.Fprintf(tw, "%s\t%s\n", l.Name, strings.Join(l.Extensions, ", "))
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d languages supported\n", len(langs))

	return nil
}
