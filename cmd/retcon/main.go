package main

import (
	"os"

	"github.com/nikomatsakis/retcon/internal/cli"
)

// version vars injected via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cli.SetVersion(version, commit, date)
	os.Exit(cli.Execute())
}
