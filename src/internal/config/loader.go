// FILE: trackwisp/src/internal/config/loader.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lconfig "github.com/lixenwraith/config"
)

const envPrefix = "TRACKWISP_"

// Environment names kept from the stream consumer deployment contract
var legacyEnv = map[string]string{
	"paths.device_id":           "DEVICE_ID_PATH",
	"paths.longitude":           "POSITION_PATH_LONGITUDE",
	"paths.latitude":            "POSITION_PATH_LATITUDE",
	"paths.sample_time":         "SAMPLE_TIME_PATH",
	"paths.horizontal_accuracy": "HORIZONTAL_ACCURACY_PATH",
	"paths.position_properties": "POSITION_PROPERTIES_PATH",
	"tracker.name":              "TRACKER_NAME",
}

// Load resolves the configuration from defaults, the config file, the
// environment and CLI overrides, in increasing precedence.
func Load(configPath string, cliArgs []string) (*Config, error) {
	if configPath == "" {
		configPath = GetConfigPath()
	}

	cfg, err := lconfig.NewBuilder().
		WithDefaults(defaults()).
		WithEnvPrefix(envPrefix).
		WithFile(configPath).
		WithArgs(cliArgs).
		WithEnvTransform(customEnvTransform).
		WithSources(
			lconfig.SourceCLI,
			lconfig.SourceEnv,
			lconfig.SourceFile,
			lconfig.SourceDefault,
		).
		Build()

	// Missing config file is fine, defaults and env still apply
	if err != nil && !errors.Is(err, lconfig.ErrConfigNotFound) {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	finalConfig := &Config{}
	if err := cfg.Scan(finalConfig); err != nil {
		return nil, fmt.Errorf("failed to scan config: %w", err)
	}

	finalConfig.Paths.applyDefaults()
	if finalConfig.Logging == nil {
		finalConfig.Logging = DefaultLogConfig()
	}
	if os.Getenv(envPrefix+"DISABLE_STATUS_REPORTER") == "1" {
		finalConfig.DisableStatusReporter = true
	}

	return finalConfig, ValidateConfig(finalConfig)
}

func customEnvTransform(path string) string {
	if env, ok := legacyEnv[path]; ok {
		return env
	}
	env := strings.ReplaceAll(path, ".", "_")
	env = strings.ToUpper(env)
	env = envPrefix + env
	return env
}

// GetConfigPath resolves the config file location from the environment
func GetConfigPath() string {
	if configFile := os.Getenv(envPrefix + "CONFIG_FILE"); configFile != "" {
		if filepath.IsAbs(configFile) {
			return configFile
		}
		if configDir := os.Getenv(envPrefix + "CONFIG_DIR"); configDir != "" {
			return filepath.Join(configDir, configFile)
		}
		return configFile
	}

	if configDir := os.Getenv(envPrefix + "CONFIG_DIR"); configDir != "" {
		return filepath.Join(configDir, "trackwisp.toml")
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config", "trackwisp.toml")
	}

	return "trackwisp.toml"
}
