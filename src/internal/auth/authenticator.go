// FILE: trackwisp/src/internal/auth/authenticator.go
package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"trackwisp/src/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lixenwraith/log"
	"golang.org/x/crypto/bcrypt"
)

// Auth types
const (
	TypeNone   = "none"
	TypeBasic  = "basic"
	TypeBearer = "bearer"
)

var (
	// ErrRateLimited is returned while a client address is blocked for
	// too many attempts
	ErrRateLimited = errors.New("too many authentication attempts")

	// ErrInvalidCredentials covers every rejected credential
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Used when the user does not exist so both paths cost one bcrypt compare
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3/jRJgAz5ak0QyPHWfIY6Ky"

// Principal identifies an authenticated caller
type Principal struct {
	Username   string
	Method     string // basic, bearer, jwt
	RemoteAddr string
	AuthTime   time.Time
}

// Authenticator checks ingest credentials. A nil *Authenticator accepts
// everything, which is what auth type "none" builds.
type Authenticator struct {
	config       *config.AuthConfig
	logger       *log.Logger
	basicUsers   map[string]string // username -> bcrypt hash
	bearerTokens map[string]bool
	jwtParser    *jwt.Parser
	jwtKeyFunc   jwt.Keyfunc
	mu           sync.RWMutex

	guard        *Guard
	failureDelay time.Duration
}

// New creates an authenticator from config. Returns nil for type "none".
func New(cfg *config.AuthConfig, logger *log.Logger) (*Authenticator, error) {
	if cfg == nil || cfg.Type == "" || cfg.Type == TypeNone {
		return nil, nil
	}

	a := &Authenticator{
		config:       cfg,
		logger:       logger,
		basicUsers:   make(map[string]string),
		bearerTokens: make(map[string]bool),
		failureDelay: 500 * time.Millisecond,
	}

	switch cfg.Type {
	case TypeBasic:
		if cfg.BasicAuth == nil || len(cfg.BasicAuth.Users) == 0 {
			return nil, fmt.Errorf("basic auth requires at least one user")
		}
		for _, user := range cfg.BasicAuth.Users {
			if _, err := bcrypt.Cost([]byte(user.PasswordHash)); err != nil {
				return nil, fmt.Errorf("user %s: invalid bcrypt hash: %w", user.Username, err)
			}
			a.basicUsers[user.Username] = user.PasswordHash
		}

	case TypeBearer:
		if cfg.BearerAuth == nil {
			return nil, fmt.Errorf("bearer auth config missing")
		}
		for _, token := range cfg.BearerAuth.Tokens {
			a.bearerTokens[token] = true
		}

		if jwtCfg := cfg.BearerAuth.JWT; jwtCfg != nil {
			if jwtCfg.SigningKey == "" {
				return nil, fmt.Errorf("jwt requires a signing key")
			}

			opts := []jwt.ParserOption{
				jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
				jwt.WithLeeway(5 * time.Second),
				jwt.WithExpirationRequired(),
			}
			if jwtCfg.Issuer != "" {
				opts = append(opts, jwt.WithIssuer(jwtCfg.Issuer))
			}
			if jwtCfg.Audience != "" {
				opts = append(opts, jwt.WithAudience(jwtCfg.Audience))
			}
			a.jwtParser = jwt.NewParser(opts...)

			key := []byte(jwtCfg.SigningKey)
			a.jwtKeyFunc = func(token *jwt.Token) (any, error) {
				return key, nil
			}
		}

	default:
		return nil, fmt.Errorf("unsupported auth type: %s", cfg.Type)
	}

	a.guard = NewGuard(logger)

	logger.Info("msg", "Authenticator initialized",
		"component", "auth",
		"type", cfg.Type,
		"basic_users", len(a.basicUsers),
		"static_tokens", len(a.bearerTokens),
		"jwt", a.jwtParser != nil)

	return a, nil
}

// Type returns the configured auth type
func (a *Authenticator) Type() string {
	if a == nil {
		return TypeNone
	}
	return a.config.Type
}

// Challenge returns the WWW-Authenticate value for a 401 response
func (a *Authenticator) Challenge() string {
	switch a.Type() {
	case TypeBasic:
		realm := "trackwisp"
		if a.config.BasicAuth != nil && a.config.BasicAuth.Realm != "" {
			realm = a.config.BasicAuth.Realm
		}
		return fmt.Sprintf("Basic realm=%q", realm)
	case TypeBearer:
		return `Bearer realm="trackwisp"`
	default:
		return ""
	}
}

// Close stops background cleanup
func (a *Authenticator) Close() {
	if a == nil {
		return
	}
	a.guard.Stop()
}

// AuthenticateHeader checks an HTTP Authorization header value
func (a *Authenticator) AuthenticateHeader(authHeader, remoteAddr string) (*Principal, error) {
	if a == nil {
		return &Principal{Method: TypeNone, RemoteAddr: remoteAddr, AuthTime: time.Now()}, nil
	}

	return a.attempt(remoteAddr, func() (*Principal, error) {
		switch a.config.Type {
		case TypeBasic:
			return a.authenticateBasic(authHeader, remoteAddr)
		case TypeBearer:
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				return nil, fmt.Errorf("%w: expected bearer authorization", ErrInvalidCredentials)
			}
			return a.validateToken(strings.TrimSpace(token), remoteAddr)
		default:
			return nil, fmt.Errorf("unsupported auth type: %s", a.config.Type)
		}
	})
}

// AuthenticateToken checks a bare bearer token, as sent by TCP clients
func (a *Authenticator) AuthenticateToken(token, remoteAddr string) (*Principal, error) {
	if a == nil {
		return &Principal{Method: TypeNone, RemoteAddr: remoteAddr, AuthTime: time.Now()}, nil
	}

	return a.attempt(remoteAddr, func() (*Principal, error) {
		if a.config.Type != TypeBearer {
			return nil, fmt.Errorf("token auth not configured")
		}
		return a.validateToken(token, remoteAddr)
	})
}

// attempt wraps one credential check with the brute-force guard
func (a *Authenticator) attempt(remoteAddr string, check func() (*Principal, error)) (*Principal, error) {
	if err := a.guard.Check(remoteAddr); err != nil {
		return nil, err
	}

	principal, err := check()
	if err != nil {
		a.guard.RecordFailure(remoteAddr)
		a.logger.Warn("msg", "Authentication failed",
			"component", "auth",
			"remote_addr", remoteAddr,
			"error", err)
		if a.failureDelay > 0 {
			time.Sleep(a.failureDelay)
		}
		return nil, err
	}

	a.guard.RecordSuccess(remoteAddr)
	a.logger.Debug("msg", "Authenticated",
		"component", "auth",
		"remote_addr", remoteAddr,
		"username", principal.Username,
		"method", principal.Method)
	return principal, nil
}

func (a *Authenticator) authenticateBasic(authHeader, remoteAddr string) (*Principal, error) {
	encoded, ok := strings.CutPrefix(authHeader, "Basic ")
	if !ok {
		return nil, fmt.Errorf("%w: expected basic authorization", ErrInvalidCredentials)
	}

	payload, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 encoding", ErrInvalidCredentials)
	}

	username, password, found := strings.Cut(string(payload), ":")
	if !found {
		return nil, fmt.Errorf("%w: invalid credentials format", ErrInvalidCredentials)
	}

	a.mu.RLock()
	expectedHash, exists := a.basicUsers[username]
	a.mu.RUnlock()

	if !exists {
		bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(expectedHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &Principal{
		Username:   username,
		Method:     TypeBasic,
		RemoteAddr: remoteAddr,
		AuthTime:   time.Now(),
	}, nil
}

func (a *Authenticator) validateToken(token, remoteAddr string) (*Principal, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidCredentials)
	}

	a.mu.RLock()
	isStatic := a.bearerTokens[token]
	a.mu.RUnlock()

	if isStatic {
		return &Principal{
			Method:     TypeBearer,
			RemoteAddr: remoteAddr,
			AuthTime:   time.Now(),
		}, nil
	}

	if a.jwtParser == nil {
		return nil, ErrInvalidCredentials
	}

	claims := jwt.MapClaims{}
	parsed, err := a.jwtParser.ParseWithClaims(token, claims, a.jwtKeyFunc)
	if err != nil {
		return nil, fmt.Errorf("%w: jwt validation failed: %v", ErrInvalidCredentials, err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid jwt", ErrInvalidCredentials)
	}

	subject, _ := claims.GetSubject()
	return &Principal{
		Username:   subject,
		Method:     "jwt",
		RemoteAddr: remoteAddr,
		AuthTime:   time.Now(),
	}, nil
}
