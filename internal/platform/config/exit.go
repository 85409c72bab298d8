package config

import (
	"fmt"
	"os"
)

// Process exit statuses used by CLI entry points.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// Exitf writes a formatted error message to stderr and exits with
// ExitFailure.
func Exitf(format string, args ...any) {
	Exit(ExitFailure, format, args...)
}

// Exit writes a formatted error message to stderr and exits with code.
func Exit(code int, format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(code)
}
