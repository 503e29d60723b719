package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	codelens "github.com/yksanjo/codelens-cli"
	"github.com/yksanjo/codelens-cli/internal/config"
	"github.com/yksanjo/codelens-cli/internal/output"
	"github.com/yksanjo/codelens-cli/internal/report"
	"github.com/yksanjo/codelens-cli/internal/scanner"
)

var (
	flagFile     string
	flagDir      string
	flagExts     []string
	flagLanguage string
	flagChanged  bool
	flagFailOn   string
	flagCI       bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a file or directory for security vulnerabilities",
	Args:  cobra.NoArgs,
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&flagFile, "file", "f", "", "Scan a single file (bypasses extension filtering)")
	scanCmd.Flags().StringVarP(&flagDir, "dir", "d", "", "Scan a directory recursively")
	scanCmd.Flags().StringSliceVar(&flagExts, "ext", nil, "File extensions to scan (default: common source extensions)")
	scanCmd.Flags().StringVarP(&flagLanguage, "language", "l", "", "Language hint sent with every request")
	scanCmd.Flags().BoolVar(&flagChanged, "changed", false, "Only scan git-changed files (staged, unstaged, untracked)")
	scanCmd.Flags().StringVar(&flagFailOn, "fail-on", "", "Exit with code 1 if vulnerabilities at or above this severity (critical, high, medium, low)")
	scanCmd.Flags().BoolVar(&flagCI, "ci", false, "CI mode: equivalent to --fail-on high --no-color")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	if (flagFile == "") == (flagDir == "") {
		return fmt.Errorf("exactly one of --file or --dir is required")
	}
	target := flagFile
	if target == "" {
		target = flagDir
	}

	cfg := loadScanConfig(cmd, target)
	applyCIDefaults()

	exts := resolveExtensions(cfg)
	opts := []codelens.Option{
		codelens.WithServerURL(resolveServerURL(cfg)),
		codelens.WithConcurrency(resolveConcurrency(cmd, cfg)),
		codelens.WithTimeout(resolveTimeout(cmd, cfg)),
		codelens.WithExtensions(exts...),
	}
	if flagLanguage != "" {
		opts = append(opts, codelens.WithLanguage(flagLanguage))
	}

	ctx, cancel := contextWithInterrupt()
	defer cancel()

	sp := startSpinner(&opts)

	rep, err := executeScan(ctx, target, exts, opts)
	if sp != nil {
		sp.Stop()
	}
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	rep.Target = target

	if err := writeOutput(rep); err != nil {
		return err
	}

	if rep.AllFailed() {
		return fmt.Errorf("analysis failed for all %d requested files", rep.FilesScanned)
	}

	return checkFailOnThreshold(rep)
}

func executeScan(ctx context.Context, target string, exts []string, opts []codelens.Option) (*codelens.Report, error) {
	switch {
	case flagFile != "":
		return codelens.ScanFile(ctx, flagFile, opts...)
	case flagChanged:
		return scanChangedFiles(ctx, flagDir, exts, opts)
	default:
		return codelens.ScanDir(ctx, flagDir, opts...)
	}
}

func scanChangedFiles(ctx context.Context, dir string, exts []string, opts []codelens.Option) (*codelens.Report, error) {
	changed, err := scanner.GitChangedFiles(dir, config.NormalizeExtensions(exts))
	if err != nil {
		return nil, fmt.Errorf("getting changed files: %w", err)
	}
	files := make([]string, 0, len(changed))
	for _, relPath := range changed {
		absPath := filepath.Join(dir, relPath)
		if _, err := os.Stat(absPath); err != nil {
			continue
		}
		files = append(files, absPath)
	}
	return codelens.ScanFiles(ctx, files, opts...)
}

// startSpinner wires a progress spinner into the scan when output goes to
// a terminal. Returns nil when the format or destination makes a spinner
// unwanted.
func startSpinner(opts *[]codelens.Option) *output.Spinner {
	if strings.ToLower(flagFormat) != "terminal" || flagNoColor {
		return nil
	}
	sp := output.NewSpinner(os.Stderr)
	sp.Start("Analyzing...")
	*opts = append(*opts, codelens.WithProgress(func(done, total int, out codelens.FileOutcome) {
		mark := "✔"
		if out.Failed() {
			mark = "✖"
		}
		sp.Update(fmt.Sprintf("%d/%d %s %s", done, total, mark, out.File))
	}))
	return sp
}

func loadScanConfig(cmd *cobra.Command, target string) config.File {
	cfg, err := config.Load(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	if !cmd.Flags().Changed("format") && cfg.Format != "" {
		flagFormat = cfg.Format
	}
	if !cmd.Flags().Changed("fail-on") && cfg.FailOn != "" {
		flagFailOn = cfg.FailOn
	}
	return cfg
}

func applyCIDefaults() {
	if flagCI {
		if flagFailOn == "" {
			flagFailOn = "high"
		}
		flagNoColor = true
	}
	if os.Getenv("NO_COLOR") != "" {
		flagNoColor = true
	}
}

func resolveExtensions(cfg config.File) []string {
	if len(flagExts) > 0 {
		return flagExts
	}
	if len(cfg.Extensions) > 0 {
		return cfg.Extensions
	}
	return config.DefaultExtensions
}

func resolveConcurrency(cmd *cobra.Command, cfg config.File) int {
	if cmd.Flags().Changed("concurrency") {
		return flagConcurrency
	}
	if cfg.Concurrency > 0 {
		return cfg.Concurrency
	}
	return config.DefaultConcurrency
}

func resolveTimeout(cmd *cobra.Command, cfg config.File) time.Duration {
	seconds := config.DefaultTimeoutSeconds
	if cmd.Flags().Changed("timeout") {
		seconds = flagTimeout
	} else if cfg.Timeout > 0 {
		seconds = cfg.Timeout
	}
	return time.Duration(seconds) * time.Second
}

func contextWithInterrupt() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx, cancel
}

func writeOutput(rep *codelens.Report) error {
	output.ToolVersion = Version

	var formatter output.Formatter
	switch strings.ToLower(flagFormat) {
	case "json":
		formatter = &output.JSONFormatter{}
	case "sarif":
		formatter = &output.SARIFFormatter{}
	case "markdown", "md":
		formatter = &output.MarkdownFormatter{}
	default:
		formatter = &output.TerminalFormatter{NoColor: flagNoColor}
	}

	w := os.Stdout
	if flagOutput != "" {
		f, err := os.Create(flagOutput)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	return formatter.Format(w, rep)
}

func checkFailOnThreshold(rep *codelens.Report) error {
	if flagFailOn == "" {
		return nil
	}
	threshold, err := codelens.ParseSeverity(flagFailOn)
	if err != nil {
		return fmt.Errorf("invalid --fail-on: %w", err)
	}
	if rep.Total > 0 && report.MaxSeverity(rep) >= threshold {
		os.Exit(1)
	}
	return nil
}
