// Package main is the entry point for the envssh binary.
//
// envssh asks the operator to pick an environment (a JSON file under the
// configured servers directory) and then a server from that file, and opens
// an interactive ssh session to it.
//
// Usage:
//
//	envssh                 # pick an environment, then a server, then connect
//	envssh list [env]      # print environments, or the servers of one
//	envssh doctor          # check config and environment files
//
// The first run writes ~/.config/server/config.toml from a template and exits.
package main

import (
	"os"

	"github.com/treykane/envssh/internal/cli"
)

func main() {
	// Execute prints any error itself and maps it, or the ssh session's own
	// status, to the exit code.
	os.Exit(cli.Execute())
}
