// FILE: trackwisp/src/cmd/trackwisp/commands/hash.go
package commands

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"trackwisp/src/internal/auth"
	"trackwisp/src/internal/core"

	"golang.org/x/term"
)

// HashCommand generates basic auth password hashes and bearer tokens
type HashCommand struct {
	output io.Writer
	input  io.Reader
	errOut io.Writer
}

func (hc *HashCommand) Execute(args []string) error {
	cmd := flag.NewFlagSet("hash", flag.ContinueOnError)
	cmd.SetOutput(hc.errOut)

	var (
		username     = cmd.String("u", "", "Username")
		usernameLong = cmd.String("user", "", "Username")
		password     = cmd.String("p", "", "Password (will prompt if not provided)")
		passwordLong = cmd.String("password", "", "Password (will prompt if not provided)")
		genToken     = cmd.Bool("t", false, "Generate random bearer token")
		genTokenLong = cmd.Bool("token", false, "Generate random bearer token")
		tokenLen     = cmd.Int("l", core.DefaultTokenLength, "Token length in bytes")
		tokenLenLong = cmd.Int("length", core.DefaultTokenLength, "Token length in bytes")
		cost         = cmd.Int("cost", core.DefaultBcryptCost, "bcrypt cost")
	)

	cmd.Usage = func() {
		fmt.Fprint(hc.errOut, hc.Help())
	}

	if err := cmd.Parse(args); err != nil {
		return err
	}
	if cmd.NArg() > 0 {
		return fmt.Errorf("unexpected argument(s): %s", strings.Join(cmd.Args(), " "))
	}

	if coalesceBool(*genToken, *genTokenLong) {
		return hc.generateToken(coalesceInt(*tokenLen, *tokenLenLong, core.DefaultTokenLength))
	}

	finalUsername := coalesceString(*username, *usernameLong)
	if finalUsername == "" {
		return fmt.Errorf("username required for password hashing (use -u)")
	}

	finalPassword := coalesceString(*password, *passwordLong)
	if finalPassword == "" {
		var err error
		finalPassword, err = hc.promptForPassword()
		if err != nil {
			return err
		}
	}

	hash, err := auth.HashPassword(finalPassword, *cost)
	if err != nil {
		return err
	}

	fmt.Fprintln(hc.output, "# Basic auth user, add to trackwisp.toml:")
	fmt.Fprintln(hc.output, "")
	fmt.Fprintln(hc.output, "[auth]")
	fmt.Fprintln(hc.output, `type = "basic"`)
	fmt.Fprintln(hc.output, "")
	fmt.Fprintln(hc.output, "[[auth.basic_auth.users]]")
	fmt.Fprintf(hc.output, "username = %q\n", finalUsername)
	fmt.Fprintf(hc.output, "password_hash = %q\n", hash)
	return nil
}

func (hc *HashCommand) generateToken(length int) error {
	token, err := auth.GenerateToken(length)
	if err != nil {
		return err
	}

	fmt.Fprintln(hc.output, "# Bearer token, add to trackwisp.toml:")
	fmt.Fprintln(hc.output, "")
	fmt.Fprintln(hc.output, "[auth]")
	fmt.Fprintln(hc.output, `type = "bearer"`)
	fmt.Fprintln(hc.output, "")
	fmt.Fprintln(hc.output, "[auth.bearer_auth]")
	fmt.Fprintf(hc.output, "tokens = [%q]\n", token)
	return nil
}

// promptForPassword reads the password twice from a terminal, or once
// from piped input
func (hc *HashCommand) promptForPassword() (string, error) {
	if f, ok := hc.input.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		pass1, err := hc.promptPassword(f, "Enter password: ")
		if err != nil {
			return "", err
		}
		pass2, err := hc.promptPassword(f, "Confirm password: ")
		if err != nil {
			return "", err
		}
		if pass1 != pass2 {
			return "", fmt.Errorf("passwords don't match")
		}
		return pass1, nil
	}

	line, err := bufio.NewReader(hc.input).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return line, nil
}

func (hc *HashCommand) promptPassword(f *os.File, prompt string) (string, error) {
	fmt.Fprint(hc.errOut, prompt)
	password, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(hc.errOut)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}

func (hc *HashCommand) Description() string {
	return "Generate basic auth password hashes and bearer tokens"
}

func (hc *HashCommand) Help() string {
	return `Hash Command - Generate ingest authentication credentials

Usage:
  trackwisp hash -u <user> [-p <password>] [--cost <n>]
  trackwisp hash -t [-l <bytes>]

Options:
  -u, --user <name>        Username for the basic auth entry
  -p, --password <pass>    Password (prompted if not provided, read from stdin when piped)
      --cost <n>           bcrypt cost (default: 10)
  -t, --token              Generate a random bearer token
  -l, --length <bytes>     Token length in bytes (default: 32, range 16-512)

Output:
  A configuration snippet ready to paste into trackwisp.toml.
`
}

// coalesceString returns the first non-empty string
func coalesceString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// coalesceInt returns the first value that differs from the default
func coalesceInt(primary, secondary, defaultVal int) int {
	if primary != defaultVal {
		return primary
	}
	if secondary != defaultVal {
		return secondary
	}
	return defaultVal
}

func coalesceBool(values ...bool) bool {
	for _, v := range values {
		if v {
			return true
		}
	}
	return false
}
