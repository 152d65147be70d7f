// Command vault is the command line for the IIIF vault.
package main

import (
	"os"

	"github.com/custodia-labs/iiif-vault/internal/adapters/driving/cli"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBuilder(build)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
