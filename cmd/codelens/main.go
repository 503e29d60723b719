package main

import (
	"os"

	"github.com/yksanjo/codelens-cli/cmd/codelens/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
