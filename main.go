// Command dutop reports the largest subdirectories of a directory.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/dutop/internal/cli"
)

// version is set at build time via -ldflags.
//
//nolint:gochecknoglobals // Build-time variable
var version = "unknown - unofficial build"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
