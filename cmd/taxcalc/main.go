// Package main is the entry point for the taxcalc CLI.
package main

import (
	"os"

	"taxcalc/cmd/taxcalc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
