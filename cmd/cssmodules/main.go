// Package main provides the cssmodules CLI, which rewrites CSS Modules
// imports in JavaScript sources into scoped class-name literals.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		code, printMessage := exitCode(err)
		if printMessage {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(code)
	}
}
