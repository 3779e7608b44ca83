// FILE: trackwisp/src/internal/auth/credentials.go
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"trackwisp/src/internal/core"

	"golang.org/x/crypto/bcrypt"
)

// Token length bounds in bytes
const (
	MinTokenLength = 16
	MaxTokenLength = 512
)

// HashPassword returns a bcrypt hash suitable for basic auth users.
// A cost of 0 selects the default.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	if cost == 0 {
		cost = core.DefaultBcryptCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return "", fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// GenerateToken returns a random URL-safe bearer token of length bytes
func GenerateToken(length int) (string, error) {
	if length < MinTokenLength || length > MaxTokenLength {
		return "", fmt.Errorf("token length must be between %d and %d bytes", MinTokenLength, MaxTokenLength)
	}

	token := make([]byte, length)
	if _, err := rand.Read(token); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(token), nil
}
