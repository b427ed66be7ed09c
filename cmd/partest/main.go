// Package main is the entry point for the partest CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/partest/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
