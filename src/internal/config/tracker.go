// FILE: trackwisp/src/internal/config/tracker.go
package config

import "trackwisp/src/internal/core"

// Tracker backends
const (
	BackendHTTP  = "http"
	BackendRedis = "redis"
)

// TrackerConfig names the destination tracker and how to reach it
type TrackerConfig struct {
	// Destination tracker name, required
	Name string `toml:"name"`

	// Backend type: "http" or "redis"
	Backend string `toml:"backend"`

	// Updates per dispatch call, 1..10
	BatchSize int64 `toml:"batch_size"`

	HTTP  TrackerHTTPConfig  `toml:"http"`
	Redis TrackerRedisConfig `toml:"redis"`
}

type TrackerHTTPConfig struct {
	// Base URL of the tracking service
	Endpoint string `toml:"endpoint"`

	// Per-call timeout enforced by the HTTP client
	TimeoutMS int64 `toml:"timeout_ms"`

	// Sent as a bearer token when set
	APIKey string `toml:"api_key"`

	// Certificate verification for https endpoints
	TLS *TLSClientConfig `toml:"tls"`
}

type TrackerRedisConfig struct {
	Addr     string `toml:"addr"`
	DB       int64  `toml:"db"`
	Password string `toml:"password"`

	// Stream key is StreamPrefix + tracker name
	StreamPrefix string `toml:"stream_prefix"`

	// Approximate stream cap, 0 = unbounded
	MaxLen int64 `toml:"max_len"`

	TimeoutMS int64 `toml:"timeout_ms"`
}

// DefaultTrackerConfig leaves Name empty on purpose: it has no default
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		Backend:   BackendHTTP,
		BatchSize: core.MaxBatchSize,
		HTTP: TrackerHTTPConfig{
			Endpoint:  "http://localhost:8080",
			TimeoutMS: 10000,
		},
		Redis: TrackerRedisConfig{
			Addr:         "localhost:6379",
			StreamPrefix: "trackwisp:tracker:",
			MaxLen:       100000,
			TimeoutMS:    5000,
		},
	}
}
