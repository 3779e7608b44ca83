// FILE: trackwisp/src/internal/config/config.go
package config

// Config is the process-wide configuration, resolved once at startup
type Config struct {
	// Field path expressions evaluated against every record
	Paths PathsConfig `toml:"paths"`

	// Update filters applied in order before batching
	Filters []FilterConfig `toml:"filters"`

	// Destination tracker and its backend
	Tracker TrackerConfig `toml:"tracker"`

	// Invocation surfaces
	Ingest IngestConfig `toml:"ingest"`

	// Ingest authentication
	Auth AuthConfig `toml:"auth"`

	// Side output for skipped records
	Discards DiscardsConfig `toml:"discards"`

	// Application logging
	Logging *LogConfig `toml:"logging"`

	// Periodic status log, disabled by TRACKWISP_DISABLE_STATUS_REPORTER=1
	DisableStatusReporter bool  `toml:"disable_status_reporter"`
	StatusIntervalSeconds int64 `toml:"status_interval_seconds"`
}

// PathsConfig holds the JSONPath expression of each extracted field
type PathsConfig struct {
	DeviceID           string `toml:"device_id"`
	Longitude          string `toml:"longitude"`
	Latitude           string `toml:"latitude"`
	SampleTime         string `toml:"sample_time"`
	HorizontalAccuracy string `toml:"horizontal_accuracy"`
	PositionProperties string `toml:"position_properties"`
}

// Default field paths
const (
	DefaultDeviceIDPath           = "$.DeviceId"
	DefaultLongitudePath          = "$.Position[0]"
	DefaultLatitudePath           = "$.Position[1]"
	DefaultSampleTimePath         = "$.Time"
	DefaultHorizontalAccuracyPath = "$.HorizontalAccuracy"
	DefaultPositionPropertiesPath = "$.Properties"
)

// DefaultPathsConfig returns the documented default expressions
func DefaultPathsConfig() PathsConfig {
	return PathsConfig{
		DeviceID:           DefaultDeviceIDPath,
		Longitude:          DefaultLongitudePath,
		Latitude:           DefaultLatitudePath,
		SampleTime:         DefaultSampleTimePath,
		HorizontalAccuracy: DefaultHorizontalAccuracyPath,
		PositionProperties: DefaultPositionPropertiesPath,
	}
}

// applyDefaults replaces empty expressions with their defaults,
// an empty environment value counts as unset
func (p *PathsConfig) applyDefaults() {
	d := DefaultPathsConfig()
	if p.DeviceID == "" {
		p.DeviceID = d.DeviceID
	}
	if p.Longitude == "" {
		p.Longitude = d.Longitude
	}
	if p.Latitude == "" {
		p.Latitude = d.Latitude
	}
	if p.SampleTime == "" {
		p.SampleTime = d.SampleTime
	}
	if p.HorizontalAccuracy == "" {
		p.HorizontalAccuracy = d.HorizontalAccuracy
	}
	if p.PositionProperties == "" {
		p.PositionProperties = d.PositionProperties
	}
}

func defaults() *Config {
	return &Config{
		Paths:                 DefaultPathsConfig(),
		Tracker:               DefaultTrackerConfig(),
		Ingest:                DefaultIngestConfig(),
		Auth:                  AuthConfig{Type: "none"},
		Discards:              DefaultDiscardsConfig(),
		Logging:               DefaultLogConfig(),
		StatusIntervalSeconds: 30,
	}
}
