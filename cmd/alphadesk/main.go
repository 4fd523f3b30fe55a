package main

import (
	"os"

	"github.com/wonny/alphadesk/cmd/alphadesk/commands"
)

// main is the entry point for the alphadesk CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
