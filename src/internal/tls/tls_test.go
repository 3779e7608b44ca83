// FILE: trackwisp/src/internal/tls/tls_test.go
package tls

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"trackwisp/src/internal/config"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPKI struct {
	caFile   string
	certFile string
	keyFile  string
}

// writeTestPKI creates a CA and a localhost certificate signed by it
func writeTestPKI(t *testing.T) testPKI {
	t.Helper()
	dir := t.TempDir()

	caKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	caTemplate := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "trackwisp test CA"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
	}
	caDER, err := x509.CreateCertificate(rand.Reader, caTemplate, caTemplate, &caKey.PublicKey, caKey)
	require.NoError(t, err)
	caCert, err := x509.ParseCertificate(caDER)
	require.NoError(t, err)

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	template := &x509.Certificate{
		SerialNumber: big.NewInt(2),
		Subject:      pkix.Name{CommonName: "localhost"},
		DNSNames:     []string{"localhost"},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1")},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, template, caCert, &key.PublicKey, caKey)
	require.NoError(t, err)
	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	pki := testPKI{
		caFile:   filepath.Join(dir, "ca.pem"),
		certFile: filepath.Join(dir, "cert.pem"),
		keyFile:  filepath.Join(dir, "key.pem"),
	}
	writePEM(t, pki.caFile, "CERTIFICATE", caDER)
	writePEM(t, pki.certFile, "CERTIFICATE", der)
	writePEM(t, pki.keyFile, "EC PRIVATE KEY", keyDER)
	return pki
}

func writePEM(t *testing.T, path, blockType string, der []byte) {
	t.Helper()
	data := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
	require.NoError(t, os.WriteFile(path, data, 0600))
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    uint16
		wantErr bool
	}{
		{"", tls.VersionTLS12, false},
		{"TLS1.2", tls.VersionTLS12, false},
		{"tls13", tls.VersionTLS13, false},
		{" TLS1.3 ", tls.VersionTLS13, false},
		{"TLS1.0", 0, true},
		{"SSL3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVersion(tt.in, tls.VersionTLS12)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCipherSuites(t *testing.T) {
	suites, err := ParseCipherSuites("")
	require.NoError(t, err)
	assert.Nil(t, suites)

	suites, err = ParseCipherSuites("TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256, TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,")
	require.NoError(t, err)
	assert.Equal(t, []uint16{
		tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
		tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	}, suites)

	_, err = ParseCipherSuites("TLS_RSA_WITH_RC4_128_SHA")
	assert.Error(t, err)
}

func TestNewServerManager(t *testing.T) {
	logger := log.NewLogger()

	t.Run("Disabled", func(t *testing.T) {
		m, err := NewServerManager(&config.TLSServerConfig{Enabled: false}, logger)
		require.NoError(t, err)
		assert.Nil(t, m)

		m, err = NewServerManager(nil, logger)
		require.NoError(t, err)
		assert.Nil(t, m)

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer ln.Close()
		assert.Same(t, ln, m.Listener(ln))
		assert.Equal(t, false, m.GetStats()["enabled"])
	})

	t.Run("MissingFiles", func(t *testing.T) {
		_, err := NewServerManager(&config.TLSServerConfig{
			Enabled:  true,
			CertFile: "/nonexistent/cert.pem",
			KeyFile:  "/nonexistent/key.pem",
		}, logger)
		assert.Error(t, err)
	})

	pki := writeTestPKI(t)

	t.Run("VersionOrder", func(t *testing.T) {
		_, err := NewServerManager(&config.TLSServerConfig{
			Enabled:    true,
			CertFile:   pki.certFile,
			KeyFile:    pki.keyFile,
			MinVersion: "TLS1.3",
			MaxVersion: "TLS1.2",
		}, logger)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "above max_version")
	})

	t.Run("ClientAuthWithoutCA", func(t *testing.T) {
		_, err := NewServerManager(&config.TLSServerConfig{
			Enabled:    true,
			CertFile:   pki.certFile,
			KeyFile:    pki.keyFile,
			ClientAuth: true,
		}, logger)
		assert.Error(t, err)
	})

	t.Run("Stats", func(t *testing.T) {
		m, err := NewServerManager(&config.TLSServerConfig{
			Enabled:  true,
			CertFile: pki.certFile,
			KeyFile:  pki.keyFile,
		}, logger)
		require.NoError(t, err)
		stats := m.GetStats()
		assert.Equal(t, true, stats["enabled"])
		assert.Equal(t, "TLS1.2", stats["min_version"])
		assert.Equal(t, "TLS1.3", stats["max_version"])
		assert.Equal(t, len(defaultCipherSuites), stats["cipher_suites"])
	})
}

func TestNewClientConfig(t *testing.T) {
	logger := log.NewLogger()

	t.Run("Defaults", func(t *testing.T) {
		cfg, err := NewClientConfig(nil, logger)
		require.NoError(t, err)
		assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
		assert.Nil(t, cfg.RootCAs)
		assert.False(t, cfg.InsecureSkipVerify)
	})

	t.Run("CertWithoutKey", func(t *testing.T) {
		_, err := NewClientConfig(&config.TLSClientConfig{ClientCertFile: "cert.pem"}, logger)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "set together")
	})

	t.Run("BadCAFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.pem")
		require.NoError(t, os.WriteFile(path, []byte("not pem"), 0600))
		_, err := NewClientConfig(&config.TLSClientConfig{ServerCAFile: path}, logger)
		assert.Error(t, err)
	})

	t.Run("Insecure", func(t *testing.T) {
		cfg, err := NewClientConfig(&config.TLSClientConfig{InsecureSkipVerify: true, MinVersion: "TLS1.3"}, logger)
		require.NoError(t, err)
		assert.True(t, cfg.InsecureSkipVerify)
		assert.Equal(t, uint16(tls.VersionTLS13), cfg.MinVersion)
	})
}

func TestHandshake(t *testing.T) {
	logger := log.NewLogger()
	pki := writeTestPKI(t)

	server, err := NewServerManager(&config.TLSServerConfig{
		Enabled:      true,
		CertFile:     pki.certFile,
		KeyFile:      pki.keyFile,
		ClientAuth:   true,
		ClientCAFile: pki.caFile,
	}, logger)
	require.NoError(t, err)

	raw, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ln := server.Listener(raw)
	defer ln.Close()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				buf := make([]byte, 4)
				if n, err := c.Read(buf); err == nil {
					c.Write(buf[:n])
				}
			}(conn)
		}
	}()

	dial := func(cfg *config.TLSClientConfig) (string, error) {
		clientCfg, err := NewClientConfig(cfg, logger)
		if err != nil {
			return "", err
		}
		conn, err := tls.DialWithDialer(&net.Dialer{Timeout: 2 * time.Second}, "tcp", raw.Addr().String(), clientCfg)
		if err != nil {
			return "", err
		}
		defer conn.Close()
		conn.SetDeadline(time.Now().Add(2 * time.Second))
		if _, err := conn.Write([]byte("ping")); err != nil {
			return "", err
		}
		buf := make([]byte, 4)
		n, err := conn.Read(buf)
		return string(buf[:n]), err
	}

	t.Run("MutualTLS", func(t *testing.T) {
		reply, err := dial(&config.TLSClientConfig{
			ServerCAFile:   pki.caFile,
			ClientCertFile: pki.certFile,
			ClientKeyFile:  pki.keyFile,
			ServerName:     "localhost",
		})
		require.NoError(t, err)
		assert.Equal(t, "ping", reply)
	})

	t.Run("UntrustedServer", func(t *testing.T) {
		_, err := dial(&config.TLSClientConfig{ServerName: "localhost"})
		assert.Error(t, err)
	})

	t.Run("MissingClientCert", func(t *testing.T) {
		_, err := dial(&config.TLSClientConfig{
			ServerCAFile: pki.caFile,
			ServerName:   "localhost",
		})
		assert.Error(t, err)
	})
}
