// FILE: trackwisp/src/cmd/trackwisp/flags.go
package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/lixenwraith/log"
)

// FlagConfig holds the process flags that are not config overrides
type FlagConfig struct {
	ConfigFile  string
	EventFile   string
	LogLevel    string
	LogOutput   string
	ShowVersion bool
	Quiet       bool

	// --section.key=value arguments handed to the config loader
	Overrides []string
}

// ParseFlags separates config overrides from process flags and parses the latter
func ParseFlags(args []string) (*FlagConfig, error) {
	flagArgs, overrides := splitOverrides(args)

	fc := &FlagConfig{Overrides: overrides}
	fs := flag.NewFlagSet("trackwisp", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&fc.ConfigFile, "config", "", "Config file path")
	fs.StringVar(&fc.ConfigFile, "c", "", "Config file path")
	fs.StringVar(&fc.EventFile, "event", "", "Run one invocation from an event file, - for stdin")
	fs.StringVar(&fc.EventFile, "e", "", "Run one invocation from an event file, - for stdin")
	fs.StringVar(&fc.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&fc.LogOutput, "log-output", "", "Log output: file, stdout, stderr, both, none")
	fs.BoolVar(&fc.ShowVersion, "version", false, "Show version information")
	fs.BoolVar(&fc.ShowVersion, "v", false, "Show version information")
	fs.BoolVar(&fc.Quiet, "quiet", false, "Suppress all console output")
	fs.BoolVar(&fc.Quiet, "q", false, "Suppress all console output")

	if err := fs.Parse(flagArgs); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument(s): %s", strings.Join(fs.Args(), " "))
	}

	if fc.LogOutput != "" {
		validOutputs := map[string]bool{
			"file": true, "stdout": true, "stderr": true,
			"both": true, "none": true,
		}
		if !validOutputs[fc.LogOutput] {
			return nil, fmt.Errorf("invalid log-output: %s (valid: file, stdout, stderr, both, none)", fc.LogOutput)
		}
	}

	if fc.LogLevel != "" {
		if _, err := parseLogLevel(fc.LogLevel); err != nil {
			return nil, fmt.Errorf("invalid log-level: %s (valid: debug, info, warn, error)", fc.LogLevel)
		}
	}

	return fc, nil
}

// splitOverrides pulls out --section.key=value and --section.key value
// arguments; everything else is a process flag
func splitOverrides(args []string) (flagArgs, overrides []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		name := strings.TrimLeft(arg, "-")
		if !strings.HasPrefix(arg, "--") || !strings.Contains(strings.SplitN(name, "=", 2)[0], ".") {
			flagArgs = append(flagArgs, arg)
			continue
		}

		overrides = append(overrides, arg)
		if !strings.Contains(name, "=") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
			overrides = append(overrides, args[i])
		}
	}
	return flagArgs, overrides
}

func parseLogLevel(level string) (int64, error) {
	switch strings.ToLower(level) {
	case "debug":
		return int64(log.LevelDebug), nil
	case "info":
		return int64(log.LevelInfo), nil
	case "warn", "warning":
		return int64(log.LevelWarn), nil
	case "error":
		return int64(log.LevelError), nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", level)
	}
}

// applyFlagOverrides lets explicit logging flags win over every config source
func applyFlagOverrides(fc *FlagConfig) {
	if fc.LogLevel != "" {
		fc.Overrides = append(fc.Overrides, "--logging.level="+fc.LogLevel)
	}
	if fc.LogOutput != "" {
		fc.Overrides = append(fc.Overrides, "--logging.output="+fc.LogOutput)
	}
}
