package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yksanjo/codelens-cli/internal/config"
)

var (
	flagServer      string
	flagFormat      string
	flagOutput      string
	flagNoColor     bool
	flagConcurrency int
	flagTimeout     int
)

// envServerURL captures CODELENS_API_URL once at process start; nothing
// else in the pipeline reads the environment.
var envServerURL string

var rootCmd = &cobra.Command{
	Use:   "codelens",
	Short: "CLI client for the CodeLens code-analysis service",
	Long:  `CodeLens submits local source files to a CodeLens analysis server for security scanning or natural-language explanation and renders the results in your terminal.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "CodeLens server URL (default: $CODELENS_API_URL or "+config.DefaultServerURL+")")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "terminal", "Output format (terminal, json, sarif, markdown)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().IntVar(&flagConcurrency, "concurrency", 0, "Max in-flight analysis requests (default: 8)")
	rootCmd.PersistentFlags().IntVar(&flagTimeout, "timeout", 0, "Per-request timeout in seconds (default: 30)")
}

// Execute runs the root command.
func Execute() error {
	envServerURL = os.Getenv(config.EnvServerURL)
	checkPathHint()
	return rootCmd.Execute()
}

// resolveServerURL picks the service address: flag, then environment, then
// config file, then the built-in default.
func resolveServerURL(cfg config.File) string {
	if flagServer != "" {
		return flagServer
	}
	if envServerURL != "" {
		return envServerURL
	}
	if cfg.ServerURL != "" {
		return cfg.ServerURL
	}
	return config.DefaultServerURL
}
