// FILE: trackwisp/src/internal/config/ingest.go
package config

import "trackwisp/src/internal/core"

// IngestConfig holds the network surfaces that trigger invocations
type IngestConfig struct {
	HTTP HTTPIngestConfig `toml:"http"`
	TCP  TCPIngestConfig  `toml:"tcp"`
}

type HTTPIngestConfig struct {
	Enabled      bool   `toml:"enabled"`
	Host         string `toml:"host"`
	Port         int64  `toml:"port"`
	InvokePath   string `toml:"invoke_path"`
	StatusPath   string `toml:"status_path"`
	MetricsPath  string `toml:"metrics_path"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`

	RateLimit RateLimitConfig `toml:"rate_limit"`

	TLS *TLSServerConfig `toml:"tls"`
}

type TCPIngestConfig struct {
	Enabled bool   `toml:"enabled"`
	Host    string `toml:"host"`
	Port    int64  `toml:"port"`

	// Longest accepted event line
	MaxLineBytes int64 `toml:"max_line_bytes"`

	// Connection caps, 0 = unlimited
	MaxConnections      int64 `toml:"max_connections"`
	MaxConnectionsPerIP int64 `toml:"max_connections_per_ip"`

	// Per-client limit on event lines
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

// RateLimitConfig limits invocations per client address
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	BurstSize         int64   `toml:"burst_size"`

	// Idle client limiters are evicted after this long
	CleanupIntervalSeconds int64 `toml:"cleanup_interval_seconds"`
}

func DefaultIngestConfig() IngestConfig {
	return IngestConfig{
		HTTP: HTTPIngestConfig{
			Enabled:      true,
			Host:         "0.0.0.0",
			Port:         8090,
			InvokePath:   "/invoke",
			StatusPath:   "/status",
			MetricsPath:  "/metrics",
			MaxBodyBytes: core.DefaultRecordBufferLength,
			RateLimit: RateLimitConfig{
				RequestsPerSecond:      10,
				BurstSize:              20,
				CleanupIntervalSeconds: 60,
			},
		},
		TCP: TCPIngestConfig{
			Host:         "0.0.0.0",
			Port:         8091,
			MaxLineBytes: core.DefaultRecordBufferLength,
			RateLimit: RateLimitConfig{
				RequestsPerSecond:      10,
				BurstSize:              20,
				CleanupIntervalSeconds: 60,
			},
		},
	}
}
