// Command draftpost keeps local drafts and uploads them when the network
// allows.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/custodia-labs/draftpost/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cli.Execute(version, bootstrap); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
