package main

import (
	"fmt"
	"os"

	"spacetraveling/internal/cli"
)

// Version will be set during build
var Version = "dev"

func main() {
	cli.Version = Version
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
