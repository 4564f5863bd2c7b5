package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/xavr/internal/cli"
	"github.com/arthur-debert/xavr/internal/version"
)

// Writes the single xavr(1) page to stdout for packaging
func main() {
	rootCmd := cli.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "XAVR",
		Section: "1",
		Source:  "xavr " + version.Version,
		Manual:  "xavr manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
