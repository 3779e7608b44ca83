// FILE: trackwisp/src/cmd/trackwisp/flags_test.go
package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitOverrides(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		flags     []string
		overrides []string
	}{
		{
			name:      "Mixed",
			args:      []string{"-event", "-", "--tracker.name=fleet", "-q"},
			flags:     []string{"-event", "-", "-q"},
			overrides: []string{"--tracker.name=fleet"},
		},
		{
			name:      "SeparateValue",
			args:      []string{"--paths.device_id", "$.Id", "--log-level", "debug"},
			flags:     []string{"--log-level", "debug"},
			overrides: []string{"--paths.device_id", "$.Id"},
		},
		{
			name:      "SingleDashIsFlag",
			args:      []string{"-config", "a.toml"},
			flags:     []string{"-config", "a.toml"},
			overrides: nil,
		},
		{
			name:      "DottedValueIsNotOverride",
			args:      []string{"--config=./conf.d/a.toml"},
			flags:     []string{"--config=./conf.d/a.toml"},
			overrides: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags, overrides := splitOverrides(tt.args)
			assert.Equal(t, tt.flags, flags)
			assert.Equal(t, tt.overrides, overrides)
		})
	}
}

func TestParseFlags(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		fc, err := ParseFlags([]string{"-c", "x.toml", "--event=-", "--log-level", "warn", "--tracker.batch_size=5"})
		require.NoError(t, err)
		assert.Equal(t, "x.toml", fc.ConfigFile)
		assert.Equal(t, "-", fc.EventFile)
		assert.Equal(t, "warn", fc.LogLevel)
		assert.Equal(t, []string{"--tracker.batch_size=5"}, fc.Overrides)
	})

	t.Run("InvalidLogOutput", func(t *testing.T) {
		_, err := ParseFlags([]string{"--log-output", "syslog"})
		assert.Error(t, err)
	})

	t.Run("InvalidLogLevel", func(t *testing.T) {
		_, err := ParseFlags([]string{"--log-level", "trace"})
		assert.Error(t, err)
	})

	t.Run("UnknownFlag", func(t *testing.T) {
		_, err := ParseFlags([]string{"--nope"})
		assert.Error(t, err)
	})

	t.Run("StrayArgument", func(t *testing.T) {
		_, err := ParseFlags([]string{"-q", "extra"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected argument")
	})

	t.Run("LoggingFlagsBecomeOverrides", func(t *testing.T) {
		fc, err := ParseFlags([]string{"--log-level=debug", "--log-output=stdout"})
		require.NoError(t, err)
		applyFlagOverrides(fc)
		assert.Equal(t, []string{"--logging.level=debug", "--logging.output=stdout"}, fc.Overrides)
	})
}
