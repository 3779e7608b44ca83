// FILE: trackwisp/src/cmd/trackwisp/commands/version.go
package commands

import (
	"fmt"
	"io"

	"trackwisp/src/internal/version"
)

// VersionCommand prints build information
type VersionCommand struct {
	output io.Writer
}

func (c *VersionCommand) Execute(args []string) error {
	fmt.Fprintln(c.output, version.String())
	return nil
}

func (c *VersionCommand) Description() string {
	return "Show version information"
}

func (c *VersionCommand) Help() string {
	return `Version Command - Show TrackWisp version information

Usage:
  trackwisp version
  trackwisp -v
  trackwisp --version
`
}
