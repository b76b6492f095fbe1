// Package main provides the fathom CLI tool for probing Syzygy endgame
// tablebases and maintaining local table directories.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
