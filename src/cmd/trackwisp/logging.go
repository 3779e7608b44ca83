// FILE: trackwisp/src/cmd/trackwisp/logging.go
package main

import (
	"fmt"
	"time"

	"trackwisp/src/internal/config"

	"github.com/lixenwraith/log"
)

// initializeLogger configures and starts the process logger
func initializeLogger(cfg *config.LogConfig, quiet bool) (*log.Logger, error) {
	args, err := loggerArgs(cfg, quiet)
	if err != nil {
		return nil, err
	}

	logger := log.NewLogger()
	if err := logger.ApplyConfigString(args...); err != nil {
		return nil, err
	}
	if err := logger.Start(); err != nil {
		return nil, err
	}
	return logger, nil
}

// loggerArgs maps the logging section onto log library overrides
func loggerArgs(cfg *config.LogConfig, quiet bool) ([]string, error) {
	if quiet {
		return []string{"disable_file=true", "enable_console=false", "level=255"}, nil
	}

	level, err := parseLogLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	args := []string{fmt.Sprintf("level=%d", level)}
	if cfg.Format != "" {
		args = append(args, "format="+cfg.Format)
	}

	switch cfg.Output {
	case "none":
		args = append(args, "disable_file=true", "enable_console=false")
	case "stdout", "stderr":
		args = append(args, "disable_file=true", "enable_console=true", "console_target="+cfg.Output)
	case "file", "both":
		if cfg.File == nil {
			return nil, fmt.Errorf("log output %q needs a file section", cfg.Output)
		}
		args = append(args, cfg.File.LogArgs()...)
		if cfg.Output == "file" {
			args = append(args, "enable_console=false")
		} else {
			console := cfg.Console
			if console == "" {
				console = "stderr"
			}
			args = append(args, "enable_console=true", "console_target="+console)
		}
	default:
		return nil, fmt.Errorf("invalid log output mode: %s", cfg.Output)
	}
	return args, nil
}

func shutdownLogger(logger *log.Logger) {
	if logger == nil {
		return
	}
	if err := logger.Shutdown(2 * time.Second); err != nil {
		stderrf("Logger shutdown error: %v\n", err)
	}
}
