package main

import (
	"os"

	"github.com/wonny/ssq/cmd/ssq/commands"
)

// main is the entry point for the SSQ CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/ssq [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
