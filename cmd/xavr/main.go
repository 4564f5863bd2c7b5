package main

import (
	"os"

	"github.com/arthur-debert/xavr/internal/cli"
	"github.com/arthur-debert/xavr/pkg/output"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		output.NewConsole(os.Stderr, output.FormatAuto).Error(err)
		os.Exit(1)
	}
}
