// jsonecho CLI - load, validate, and resolve mock API configurations.
package main

import (
	"fmt"
	"os"

	"github.com/jsonecho/jsonecho/pkg/cli"
)

// Build-time variables set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	info := cli.BuildInfo{Version: Version, Commit: Commit, BuildDate: BuildDate}
	if err := cli.Execute(info); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
