// FILE: trackwisp/src/internal/config/validation.go
package config

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"

	"trackwisp/src/internal/core"
)

// Tracker names accepted by the tracking service
var trackerNamePattern = regexp.MustCompile(`^[-._\w]+$`)

// ValidateConfig is the centralized validator for the entire configuration
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if err := validatePaths(&cfg.Paths); err != nil {
		return fmt.Errorf("paths: %w", err)
	}

	for i := range cfg.Filters {
		if err := validateFilter(i, &cfg.Filters[i]); err != nil {
			return err
		}
	}

	if err := ValidateTrackerName(cfg.Tracker.Name); err != nil {
		return fmt.Errorf("tracker: %w", err)
	}

	if err := validateTracker(&cfg.Tracker); err != nil {
		return fmt.Errorf("tracker: %w", err)
	}

	if err := validateIngest(&cfg.Ingest, &cfg.Auth); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	if err := validateAuth(&cfg.Auth); err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	if err := validateDiscards(&cfg.Discards); err != nil {
		return fmt.Errorf("discards: %w", err)
	}

	if cfg.Logging == nil {
		cfg.Logging = DefaultLogConfig()
	}
	if err := validateLogConfig(cfg.Logging); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	if cfg.StatusIntervalSeconds <= 0 {
		cfg.StatusIntervalSeconds = 30
	}

	return nil
}

// ValidateTrackerName checks a destination name against the service contract
func ValidateTrackerName(name string) error {
	if err := nonEmpty(name); err != nil {
		return fmt.Errorf("tracker name is required (set TRACKER_NAME)")
	}
	if len(name) > core.MaxTrackerNameLength {
		return fmt.Errorf("tracker name longer than %d characters", core.MaxTrackerNameLength)
	}
	if !trackerNamePattern.MatchString(name) {
		return fmt.Errorf("tracker name %q contains invalid characters", name)
	}
	return nil
}

// Expressions are only checked for presence here, compilation happens in
// the path package so a malformed expression fails before processing.
func validatePaths(p *PathsConfig) error {
	fields := map[string]string{
		"device_id":           p.DeviceID,
		"longitude":           p.Longitude,
		"latitude":            p.Latitude,
		"sample_time":         p.SampleTime,
		"horizontal_accuracy": p.HorizontalAccuracy,
		"position_properties": p.PositionProperties,
	}
	for name, expr := range fields {
		if strings.TrimSpace(expr) == "" {
			return fmt.Errorf("%s: empty expression", name)
		}
	}
	return nil
}

func validateTracker(t *TrackerConfig) error {
	if t.BatchSize == 0 {
		t.BatchSize = core.MaxBatchSize
	}
	if t.BatchSize < 1 || t.BatchSize > core.MaxBatchSize {
		return fmt.Errorf("batch_size must be between 1 and %d: %d", core.MaxBatchSize, t.BatchSize)
	}

	switch t.Backend {
	case BackendHTTP:
		if err := nonEmpty(t.HTTP.Endpoint); err != nil {
			return fmt.Errorf("http backend requires 'endpoint'")
		}
		parsedURL, err := url.Parse(t.HTTP.Endpoint)
		if err != nil {
			return fmt.Errorf("invalid endpoint: %w", err)
		}
		if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			return fmt.Errorf("endpoint must use http or https scheme")
		}
		if parsedURL.Host == "" {
			return fmt.Errorf("endpoint has no host: %s", t.HTTP.Endpoint)
		}
		if t.HTTP.TimeoutMS <= 0 {
			t.HTTP.TimeoutMS = 10000
		}
		if t.HTTP.TLS != nil && parsedURL.Scheme != "https" {
			return fmt.Errorf("tls settings require an https endpoint")
		}

	case BackendRedis:
		if err := nonEmpty(t.Redis.Addr); err != nil {
			return fmt.Errorf("redis backend requires 'addr'")
		}
		if t.Redis.DB < 0 {
			return fmt.Errorf("redis db cannot be negative: %d", t.Redis.DB)
		}
		if t.Redis.MaxLen < 0 {
			return fmt.Errorf("redis max_len cannot be negative: %d", t.Redis.MaxLen)
		}
		if t.Redis.TimeoutMS <= 0 {
			t.Redis.TimeoutMS = 5000
		}

	default:
		return fmt.Errorf("unknown backend '%s'", t.Backend)
	}

	return nil
}

func validateIngest(in *IngestConfig, auth *AuthConfig) error {
	if in.HTTP.Enabled {
		if err := validatePort(in.HTTP.Port); err != nil {
			return fmt.Errorf("http: %w", err)
		}
		if err := validateHost(in.HTTP.Host); err != nil {
			return fmt.Errorf("http: %w", err)
		}
		for name, p := range map[string]string{
			"invoke_path":  in.HTTP.InvokePath,
			"status_path":  in.HTTP.StatusPath,
			"metrics_path": in.HTTP.MetricsPath,
		} {
			if p != "" && !strings.HasPrefix(p, "/") {
				return fmt.Errorf("http: %s must start with /", name)
			}
		}
		if in.HTTP.InvokePath == "" {
			in.HTTP.InvokePath = "/invoke"
		}
		if in.HTTP.MaxBodyBytes <= 0 {
			in.HTTP.MaxBodyBytes = core.DefaultRecordBufferLength
		}
		if err := validateRateLimit(&in.HTTP.RateLimit); err != nil {
			return fmt.Errorf("http: %w", err)
		}
		if err := validateServerTLS(in.HTTP.TLS); err != nil {
			return fmt.Errorf("http: %w", err)
		}
	}

	if in.TCP.Enabled {
		if err := validatePort(in.TCP.Port); err != nil {
			return fmt.Errorf("tcp: %w", err)
		}
		if err := validateHost(in.TCP.Host); err != nil {
			return fmt.Errorf("tcp: %w", err)
		}
		if in.HTTP.Enabled && in.HTTP.Port == in.TCP.Port {
			return fmt.Errorf("tcp: port %d already used by http ingest", in.TCP.Port)
		}
		if in.TCP.MaxLineBytes <= 0 {
			in.TCP.MaxLineBytes = core.DefaultRecordBufferLength
		}
		if in.TCP.MaxConnections < 0 || in.TCP.MaxConnectionsPerIP < 0 {
			return fmt.Errorf("tcp: connection limits cannot be negative")
		}
		if err := validateRateLimit(&in.TCP.RateLimit); err != nil {
			return fmt.Errorf("tcp: %w", err)
		}
		// TCP clients can only present tokens
		if auth.Type == "basic" {
			return fmt.Errorf("tcp: basic auth is not supported, use bearer")
		}
	}

	return nil
}

func validateServerTLS(t *TLSServerConfig) error {
	if t == nil || !t.Enabled {
		return nil
	}
	if t.CertFile == "" || t.KeyFile == "" {
		return fmt.Errorf("tls enabled but cert_file/key_file not specified")
	}
	if t.ClientAuth && t.ClientCAFile == "" {
		return fmt.Errorf("tls client_auth requires client_ca_file")
	}
	return nil
}

func validateRateLimit(rl *RateLimitConfig) error {
	if !rl.Enabled {
		return nil
	}
	if rl.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate_limit: requests_per_second must be positive")
	}
	if rl.BurstSize < 1 {
		return fmt.Errorf("rate_limit: burst_size must be at least 1")
	}
	if rl.CleanupIntervalSeconds <= 0 {
		rl.CleanupIntervalSeconds = 60
	}
	return nil
}

func validateAuth(auth *AuthConfig) error {
	if auth.Type == "" {
		auth.Type = "none"
	}

	switch auth.Type {
	case "none":
	case "basic":
		if auth.BasicAuth == nil || len(auth.BasicAuth.Users) == 0 {
			return fmt.Errorf("basic auth type specified but no users configured")
		}
		for i, user := range auth.BasicAuth.Users {
			if err := nonEmpty(user.Username); err != nil {
				return fmt.Errorf("user %d: missing username", i)
			}
			if !strings.HasPrefix(user.PasswordHash, "$2") {
				return fmt.Errorf("user %s: password_hash must be a bcrypt hash", user.Username)
			}
		}
	case "bearer":
		if auth.BearerAuth == nil {
			return fmt.Errorf("bearer auth type specified but config missing")
		}
		if len(auth.BearerAuth.Tokens) == 0 && auth.BearerAuth.JWT == nil {
			return fmt.Errorf("bearer auth requires tokens or jwt")
		}
		if auth.BearerAuth.JWT != nil {
			if err := nonEmpty(auth.BearerAuth.JWT.SigningKey); err != nil {
				return fmt.Errorf("jwt requires 'signing_key'")
			}
		}
	default:
		return fmt.Errorf("invalid auth type: %s", auth.Type)
	}

	return nil
}

func validateLogConfig(cfg *LogConfig) error {
	validOutputs := map[string]bool{
		"file": true, "stdout": true, "stderr": true,
		"both": true, "none": true,
	}
	if !validOutputs[cfg.Output] {
		return fmt.Errorf("invalid log output mode: %s", cfg.Output)
	}

	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[cfg.Level] {
		return fmt.Errorf("invalid log level: %s", cfg.Level)
	}

	switch cfg.Console {
	case "stdout", "stderr", "split":
	default:
		return fmt.Errorf("invalid console target: %s", cfg.Console)
	}

	if cfg.Format != "txt" && cfg.Format != "json" {
		return fmt.Errorf("invalid log format: %s", cfg.Format)
	}

	if cfg.Output == "file" || cfg.Output == "both" {
		if cfg.File == nil || cfg.File.Directory == "" || cfg.File.Name == "" {
			return fmt.Errorf("log file output requires directory and name")
		}
	}

	return nil
}

func validatePort(port int64) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port: %d", port)
	}
	return nil
}

func validateHost(host string) error {
	if host == "" || host == "0.0.0.0" || host == "localhost" {
		return nil
	}
	if err := ipAddress(host); err != nil {
		return err
	}
	return nil
}

func nonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("value cannot be empty")
	}
	return nil
}

func ipAddress(s string) error {
	if net.ParseIP(s) == nil {
		return fmt.Errorf("invalid IP address: %s", s)
	}
	return nil
}
