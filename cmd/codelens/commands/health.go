package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	codelens "github.com/yksanjo/codelens-cli"
	"github.com/yksanjo/codelens-cli/internal/config"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the analysis service is reachable and configured",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	cfg, _ := config.Load(".")
	serverURL := resolveServerURL(cfg)

	opts := []codelens.Option{
		codelens.WithServerURL(serverURL),
		codelens.WithTimeout(resolveTimeout(cmd, cfg)),
	}

	ctx, cancel := contextWithInterrupt()
	defer cancel()

	status, err := codelens.Health(ctx, opts...)
	if err != nil {
		return fmt.Errorf("health check failed: %w (is the CodeLens server running at %s?)", err, serverURL)
	}

	w := cmd.OutOrStdout()

	if strings.ToLower(flagFormat) == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	mark := func(ok bool) string {
		if ok {
			return "✔"
		}
		return "✖"
	}

	fmt.Fprintf(w, "Server:        %s\n", serverURL)
	fmt.Fprintf(w, "Status:        %s %s\n", mark(status.OK()), status.Status)
	fmt.Fprintf(w, "Version:       %s\n", status.Version)
	fmt.Fprintf(w, "AI configured: %s\n", mark(status.AIConfigured))

	if !status.OK() {
		return fmt.Errorf("service reported status %q", status.Status)
	}
	return nil
}
