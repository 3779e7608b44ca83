// FILE: trackwisp/src/cmd/trackwisp/commands/router.go
package commands

import (
	"fmt"
	"io"
	"os"
)

// Handler defines the interface required for all subcommands.
type Handler interface {
	Execute(args []string) error
	Description() string
	Help() string
}

// CommandRouter dispatches CLI arguments to subcommands before the main
// application starts.
type CommandRouter struct {
	commands map[string]Handler
	output   io.Writer
}

// NewCommandRouter creates the router with all available commands.
func NewCommandRouter() *CommandRouter {
	return newCommandRouter(os.Stdout, os.Stdin, os.Stderr)
}

func newCommandRouter(out io.Writer, in io.Reader, errOut io.Writer) *CommandRouter {
	router := &CommandRouter{
		commands: make(map[string]Handler),
		output:   out,
	}

	router.commands["version"] = &VersionCommand{output: out}
	router.commands["hash"] = &HashCommand{output: out, input: in, errOut: errOut}
	router.commands["help"] = &HelpCommand{router: router, output: out}

	return router
}

// Route executes a subcommand if args name one. It reports whether a
// command ran, in which case the caller exits.
func (r *CommandRouter) Route(args []string) (bool, error) {
	if len(args) < 2 {
		return false, nil
	}

	cmdName := args[1]

	for _, arg := range args[1:] {
		if arg == "-h" || arg == "--help" {
			if handler, exists := r.commands[cmdName]; exists && cmdName != "help" {
				fmt.Fprint(r.output, handler.Help())
				return true, nil
			}
			return true, r.commands["help"].Execute(nil)
		}
	}

	handler, exists := r.commands[cmdName]
	if !exists {
		// Flags and overrides belong to the main application
		if cmdName == "" || cmdName[0] != '-' {
			return false, fmt.Errorf("unknown command: %s\n\nRun 'trackwisp help' for usage", cmdName)
		}
		return false, nil
	}

	return true, handler.Execute(args[2:])
}

// GetCommand returns a command handler by name.
func (r *CommandRouter) GetCommand(name string) (Handler, bool) {
	cmd, exists := r.commands[name]
	return cmd, exists
}

// GetCommands returns all registered commands.
func (r *CommandRouter) GetCommands() map[string]Handler {
	return r.commands
}
