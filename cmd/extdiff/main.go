// Package main provides the entry point for the extdiff CLI.
package main

import (
	"os"

	"github.com/felixgeelhaar/extdiff/internal/domain/extension"
)

func main() {
	err := Execute()
	if err == nil {
		return
	}
	if code, ok := extension.ExitCode(err); ok {
		os.Exit(code)
	}
	printError(err)
	os.Exit(2)
}
