// Command tectctl is the CLI front end for the truth substrate: appending
// events to streams, materializing typed views, and managing snapshots
// and the derived-artifact cache.
package main

import (
	"fmt"
	"os"

	"github.com/ptsim/truthcore/internal/cli"
)

func main() {
	root := cli.NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
