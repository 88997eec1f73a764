package main

import (
	"os"

	"foldr/cmd/foldr/cli"
)

var (
	version = "dev"
)

// Entry point for the application
func main() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		cli.NewPrinter(os.Stderr).PrintError(err.Error())
		os.Exit(1)
	}
}
