package main

import (
	"fmt"
	"os"
)

// Version information set via ldflags at build time
var version = "dev"

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
