// Command jcodec is the CLI demonstration surface for the jcodec library:
// decode, stream, roundtrip, and probe subcommands wired over cobra, afero,
// envconfig, logrus, and github.com/pkg/errors, per SPEC_FULL.md §2/§6.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
