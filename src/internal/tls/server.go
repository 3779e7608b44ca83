// FILE: trackwisp/src/internal/tls/server.go
package tls

import (
	"crypto/tls"
	"fmt"
	"net"

	"trackwisp/src/internal/config"

	"github.com/lixenwraith/log"
)

// ServerManager holds the TLS settings of the ingest HTTP server
type ServerManager struct {
	config    *config.TLSServerConfig
	tlsConfig *tls.Config
}

// NewServerManager loads the server certificate. It returns nil, nil when
// TLS is disabled; a nil manager leaves listeners in plaintext.
func NewServerManager(cfg *config.TLSServerConfig, logger *log.Logger) (*ServerManager, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load server cert/key: %w", err)
	}

	minVersion, err := ParseVersion(cfg.MinVersion, tls.VersionTLS12)
	if err != nil {
		return nil, fmt.Errorf("min_version: %w", err)
	}
	maxVersion, err := ParseVersion(cfg.MaxVersion, tls.VersionTLS13)
	if err != nil {
		return nil, fmt.Errorf("max_version: %w", err)
	}
	if minVersion > maxVersion {
		return nil, fmt.Errorf("min_version %s is above max_version %s", versionString(minVersion), versionString(maxVersion))
	}

	suites, err := ParseCipherSuites(cfg.CipherSuites)
	if err != nil {
		return nil, err
	}
	if suites == nil {
		suites = defaultCipherSuites
	}

	m := &ServerManager{
		config: cfg,
		tlsConfig: &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   minVersion,
			MaxVersion:   maxVersion,
			CipherSuites: suites,
			NextProtos:   []string{"http/1.1"},
		},
	}

	if cfg.ClientAuth {
		if cfg.ClientCAFile == "" {
			return nil, fmt.Errorf("client_auth requires client_ca_file")
		}
		pool, err := loadCertPool(cfg.ClientCAFile)
		if err != nil {
			return nil, fmt.Errorf("client CA: %w", err)
		}
		m.tlsConfig.ClientCAs = pool
		m.tlsConfig.ClientAuth = tls.RequireAndVerifyClientCert
	}

	logger.Info("msg", "Server TLS configured",
		"component", "tls",
		"min_version", versionString(minVersion),
		"max_version", versionString(maxVersion),
		"client_auth", cfg.ClientAuth)

	return m, nil
}

// Listener wraps ln with TLS; a nil manager returns ln unchanged
func (m *ServerManager) Listener(ln net.Listener) net.Listener {
	if m == nil {
		return ln
	}
	return tls.NewListener(ln, m.tlsConfig.Clone())
}

// GetStats returns the effective server TLS settings
func (m *ServerManager) GetStats() map[string]any {
	if m == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"enabled":       true,
		"min_version":   versionString(m.tlsConfig.MinVersion),
		"max_version":   versionString(m.tlsConfig.MaxVersion),
		"client_auth":   m.config.ClientAuth,
		"cipher_suites": len(m.tlsConfig.CipherSuites),
	}
}
