package main

import (
	"os"

	"github.com/wonny/oracle/cmd/oracle/commands"
)

// main is the entry point for the Oracle CLI: go run ./cmd/oracle [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
