// FILE: trackwisp/src/cmd/trackwisp/commands/help.go
package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

const generalHelpTemplate = `TrackWisp: stream records to tracking service position updates.

Usage:
  trackwisp [command] [options]
  trackwisp [options] [--section.key=value ...]

Commands:
%s

Application Options:
  -c, --config <path>      Path to configuration file (default: trackwisp.toml)
  -e, --event <file|->     Run one invocation from an event file or stdin and exit
  -h, --help               Display this help message and exit
  -v, --version            Display version information and exit
  -q, --quiet              Suppress all console output, including errors
      --log-level <level>  Log level: debug, info, warn, error
      --log-output <mode>  Log output: file, stdout, stderr, both, none

Exit Codes (one-shot mode):
  0  invocation completed
  1  event could not be read or decoded
  2  configuration error
  3  a batch could not be dispatched

Configuration Sources (Precedence: CLI > Env > File > Defaults):
  - --section.key=value overrides any setting, e.g. --tracker.name=fleet
  - TRACKWISP_<SECTION>_<KEY> environment variables
  - TRACKER_NAME, DEVICE_ID_PATH, POSITION_PATH_LONGITUDE, POSITION_PATH_LATITUDE,
    SAMPLE_TIME_PATH, HORIZONTAL_ACCURACY_PATH, POSITION_PROPERTIES_PATH
  - TOML configuration file

Examples:
  # Serve HTTP invocations for tracker "fleet"
  TRACKER_NAME=fleet trackwisp -c /etc/trackwisp/prod.toml

  # One-shot invocation from stdin
  cat event.json | trackwisp --tracker.name=fleet -e -
`

// HelpCommand displays general or command-specific help.
type HelpCommand struct {
	router *CommandRouter
	output io.Writer
}

func (c *HelpCommand) Execute(args []string) error {
	if len(args) > 0 && args[0] != "" {
		cmdName := args[0]

		if handler, exists := c.router.GetCommand(cmdName); exists {
			fmt.Fprint(c.output, handler.Help())
			return nil
		}

		return fmt.Errorf("unknown command: %s", cmdName)
	}

	fmt.Fprintf(c.output, generalHelpTemplate, c.formatCommandList())
	return nil
}

func (c *HelpCommand) Description() string {
	return "Display help information"
}

func (c *HelpCommand) Help() string {
	return `Help Command - Display help information

Usage:
  trackwisp help              Show general help
  trackwisp help <command>    Show help for a specific command
`
}

// formatCommandList aligns command descriptions in name order
func (c *HelpCommand) formatCommandList() string {
	commands := c.router.GetCommands()

	names := make([]string, 0, len(commands))
	maxLen := 0
	for name := range commands {
		names = append(names, name)
		if len(name) > maxLen {
			maxLen = len(name)
		}
	}
	sort.Strings(names)

	var lines []string
	for _, name := range names {
		padding := strings.Repeat(" ", maxLen-len(name)+2)
		lines = append(lines, fmt.Sprintf("  %s%s%s", name, padding, commands[name].Description()))
	}

	return strings.Join(lines, "\n")
}
