package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yksanjo/codelens-cli/internal/update"
)

// Version and Commit are set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
)

// updateRepo is the GitHub repository checked for newer releases.
const updateRepo = "yksanjo/codelens-cli"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("codelens %s (commit: %s)\n", Version, Commit)
		if res := update.CheckLatest(Version, updateRepo); res != nil && res.NeedsUpdate() {
			fmt.Fprintf(os.Stderr, "\nA newer release is available: %s (you have %s)\n", res.Latest, res.Current)
			fmt.Fprintf(os.Stderr, "  %s\n", res.UpdateURL)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
