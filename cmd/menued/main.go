package main

import (
	"os"
)

var (
	// Set at build time via -ldflags "-X main.version=... -X main.commit=... -X main.date=..."
	version = "v0.0.0"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
