package main

import (
	"os"

	"github.com/N3ro47/lockfree/cmd"
)

func main() {
	if err := cmd.CmdLfq.Execute(); err != nil {
		os.Exit(1)
	}
}
