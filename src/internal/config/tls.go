// FILE: trackwisp/src/internal/config/tls.go
package config

// TLSServerConfig enables HTTPS on the ingest HTTP server
type TLSServerConfig struct {
	Enabled  bool   `toml:"enabled"`
	CertFile string `toml:"cert_file"`
	KeyFile  string `toml:"key_file"`

	// Require client certificates signed by ClientCAFile
	ClientAuth   bool   `toml:"client_auth"`
	ClientCAFile string `toml:"client_ca_file"`

	// "TLS1.2", "TLS1.3"
	MinVersion string `toml:"min_version"`
	MaxVersion string `toml:"max_version"`

	// Comma-separated suite names, empty for the built-in set
	CipherSuites string `toml:"cipher_suites"`
}

// TLSClientConfig controls how the tracker HTTP client verifies the service
type TLSClientConfig struct {
	// Trust this CA instead of the system pool
	ServerCAFile string `toml:"server_ca_file"`

	// Client certificate for services that require mTLS
	ClientCertFile string `toml:"client_cert_file"`
	ClientKeyFile  string `toml:"client_key_file"`

	ServerName         string `toml:"server_name"`
	InsecureSkipVerify bool   `toml:"insecure_skip_verify"`
	MinVersion         string `toml:"min_version"`
}
