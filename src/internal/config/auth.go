// FILE: trackwisp/src/internal/config/auth.go
package config

// AuthConfig protects the ingest surfaces. The one-shot -event mode never
// authenticates.
type AuthConfig struct {
	// "none", "basic" (HTTP only) or "bearer"
	Type string `toml:"type"`

	BasicAuth  *BasicAuthConfig  `toml:"basic_auth"`
	BearerAuth *BearerAuthConfig `toml:"bearer_auth"`
}

type BasicAuthConfig struct {
	Users []BasicAuthUser `toml:"users"`

	// Sent in WWW-Authenticate on a 401
	Realm string `toml:"realm"`
}

// BasicAuthUser holds a bcrypt hash, generated with `trackwisp hash`
type BasicAuthUser struct {
	Username     string `toml:"username"`
	PasswordHash string `toml:"password_hash"`
}

// BearerAuthConfig accepts a static token or a valid JWT, either is enough
type BearerAuthConfig struct {
	Tokens []string   `toml:"tokens"`
	JWT    *JWTConfig `toml:"jwt"`
}

// JWTConfig validates HMAC-signed tokens. Issuer and audience are checked
// only when set.
type JWTConfig struct {
	SigningKey string `toml:"signing_key"`
	Issuer     string `toml:"issuer"`
	Audience   string `toml:"audience"`
}
