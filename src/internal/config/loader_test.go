// FILE: trackwisp/src/internal/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomEnvTransform(t *testing.T) {
	testCases := []struct {
		path     string
		expected string
	}{
		{"paths.device_id", "DEVICE_ID_PATH"},
		{"paths.longitude", "POSITION_PATH_LONGITUDE"},
		{"paths.latitude", "POSITION_PATH_LATITUDE"},
		{"paths.sample_time", "SAMPLE_TIME_PATH"},
		{"paths.horizontal_accuracy", "HORIZONTAL_ACCURACY_PATH"},
		{"paths.position_properties", "POSITION_PROPERTIES_PATH"},
		{"tracker.name", "TRACKER_NAME"},
		{"tracker.batch_size", "TRACKWISP_TRACKER_BATCH_SIZE"},
		{"ingest.http.port", "TRACKWISP_INGEST_HTTP_PORT"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.expected, customEnvTransform(tc.path))
		})
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Run("ExplicitAbsoluteFile", func(t *testing.T) {
		t.Setenv("TRACKWISP_CONFIG_FILE", "/etc/trackwisp/custom.toml")
		t.Setenv("TRACKWISP_CONFIG_DIR", "/ignored")
		assert.Equal(t, "/etc/trackwisp/custom.toml", GetConfigPath())
	})

	t.Run("RelativeFileInDir", func(t *testing.T) {
		t.Setenv("TRACKWISP_CONFIG_FILE", "custom.toml")
		t.Setenv("TRACKWISP_CONFIG_DIR", "/opt/tw")
		assert.Equal(t, filepath.Join("/opt/tw", "custom.toml"), GetConfigPath())
	})

	t.Run("DirOnly", func(t *testing.T) {
		t.Setenv("TRACKWISP_CONFIG_FILE", "")
		t.Setenv("TRACKWISP_CONFIG_DIR", "/opt/tw")
		assert.Equal(t, filepath.Join("/opt/tw", "trackwisp.toml"), GetConfigPath())
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trackwisp.toml")

	content := `
[paths]
device_id = "$.device.id"

[tracker]
name = "file-tracker"
batch_size = 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "file-tracker", cfg.Tracker.Name)
	assert.Equal(t, int64(5), cfg.Tracker.BatchSize)
	assert.Equal(t, "$.device.id", cfg.Paths.DeviceID)
	assert.Equal(t, DefaultLongitudePath, cfg.Paths.Longitude)
	assert.Equal(t, BackendHTTP, cfg.Tracker.Backend)
	require.NotNil(t, cfg.Logging)
}
