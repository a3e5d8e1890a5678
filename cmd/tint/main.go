// Command tint resolves design tokens to colors.
package main

import (
	"fmt"
	"os"

	"github.com/opencode-ai/tint/internal/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
