// Package main is the entry point for the hearth CLI.
package main

import (
	"fmt"
	"os"

	"github.com/hearthapp/hearth-api/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	container := cli.NewContainer()
	defer container.Close()

	rootCmd := cli.NewRootCommand(container, version)
	return rootCmd.Execute()
}
