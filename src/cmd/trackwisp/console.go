// FILE: trackwisp/src/cmd/trackwisp/console.go
package main

import (
	"fmt"
	"io"
	"os"
)

// User-facing text that bypasses the logger. Set once in run before any
// goroutine starts; quiet silences both streams.
var (
	quietMode bool
	stdout    io.Writer = os.Stdout
	stderr    io.Writer = os.Stderr
)

func stdoutf(format string, args ...any) {
	if !quietMode {
		fmt.Fprintf(stdout, format, args...)
	}
}

func stderrf(format string, args ...any) {
	if !quietMode {
		fmt.Fprintf(stderr, format, args...)
	}
}
