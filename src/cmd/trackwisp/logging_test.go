// FILE: trackwisp/src/cmd/trackwisp/logging_test.go
package main

import (
	"testing"

	"trackwisp/src/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerArgs(t *testing.T) {
	t.Run("Quiet", func(t *testing.T) {
		args, err := loggerArgs(config.DefaultLogConfig(), true)
		require.NoError(t, err)
		assert.Equal(t, []string{"disable_file=true", "enable_console=false", "level=255"}, args)
	})

	t.Run("Stderr", func(t *testing.T) {
		args, err := loggerArgs(config.DefaultLogConfig(), false)
		require.NoError(t, err)
		assert.Contains(t, args, "level=0")
		assert.Contains(t, args, "disable_file=true")
		assert.Contains(t, args, "enable_console=true")
		assert.Contains(t, args, "console_target=stderr")
	})

	t.Run("BothUsesConsoleTarget", func(t *testing.T) {
		cfg := config.DefaultLogConfig()
		cfg.Output = "both"
		cfg.Console = "split"
		args, err := loggerArgs(cfg, false)
		require.NoError(t, err)
		assert.Contains(t, args, "name=trackwisp")
		assert.Contains(t, args, "console_target=split")
		assert.NotContains(t, args, "disable_file=true")
	})

	t.Run("FileOnly", func(t *testing.T) {
		cfg := config.DefaultLogConfig()
		cfg.Output = "file"
		args, err := loggerArgs(cfg, false)
		require.NoError(t, err)
		assert.Contains(t, args, "enable_console=false")
		assert.Contains(t, args, "retention_period_hrs=168.0")
	})

	t.Run("UnknownOutput", func(t *testing.T) {
		cfg := config.DefaultLogConfig()
		cfg.Output = "syslog"
		_, err := loggerArgs(cfg, false)
		assert.Error(t, err)
	})
}

func TestInitializeLogger(t *testing.T) {
	cfg := config.DefaultLogConfig()
	cfg.Output = "file"
	cfg.File.Directory = t.TempDir()

	logger, err := initializeLogger(cfg, false)
	require.NoError(t, err)
	logger.Info("msg", "started", "component", "test")
	shutdownLogger(logger)
}
