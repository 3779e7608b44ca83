// FILE: trackwisp/src/internal/tls/client.go
package tls

import (
	"crypto/tls"
	"fmt"

	"trackwisp/src/internal/config"

	"github.com/lixenwraith/log"
)

// NewClientConfig builds the TLS settings the tracker client dials with.
// A nil cfg yields the system defaults at TLS 1.2 or newer.
func NewClientConfig(cfg *config.TLSClientConfig, logger *log.Logger) (*tls.Config, error) {
	if cfg == nil {
		return &tls.Config{MinVersion: tls.VersionTLS12}, nil
	}

	minVersion, err := ParseVersion(cfg.MinVersion, tls.VersionTLS12)
	if err != nil {
		return nil, fmt.Errorf("min_version: %w", err)
	}

	tlsConfig := &tls.Config{
		MinVersion:         minVersion,
		ServerName:         cfg.ServerName,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}

	switch {
	case cfg.ClientCertFile != "" && cfg.ClientKeyFile != "":
		cert, err := tls.LoadX509KeyPair(cfg.ClientCertFile, cfg.ClientKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert/key: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	case cfg.ClientCertFile != "" || cfg.ClientKeyFile != "":
		return nil, fmt.Errorf("client_cert_file and client_key_file must be set together")
	}

	if cfg.ServerCAFile != "" {
		pool, err := loadCertPool(cfg.ServerCAFile)
		if err != nil {
			return nil, fmt.Errorf("server CA: %w", err)
		}
		tlsConfig.RootCAs = pool
	}

	if cfg.InsecureSkipVerify {
		logger.Warn("msg", "Tracker TLS verification disabled", "component", "tls")
	}

	logger.Debug("msg", "Client TLS configured",
		"component", "tls",
		"min_version", versionString(minVersion),
		"has_client_cert", len(tlsConfig.Certificates) > 0,
		"has_server_ca", cfg.ServerCAFile != "")

	return tlsConfig, nil
}
