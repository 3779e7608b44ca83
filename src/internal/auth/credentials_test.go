// FILE: trackwisp/src/internal/auth/credentials_test.go
package auth

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		hash, err := HashPassword("pa55", bcrypt.MinCost)
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("pa55")))
	})

	t.Run("ErrorEmpty", func(t *testing.T) {
		_, err := HashPassword("", 0)
		assert.Error(t, err)
	})

	t.Run("ErrorCost", func(t *testing.T) {
		_, err := HashPassword("x", 99)
		assert.Error(t, err)
	})
}

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken(32)
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(token)
	require.NoError(t, err)
	assert.Len(t, raw, 32)

	other, _ := GenerateToken(32)
	assert.NotEqual(t, token, other)

	_, err = GenerateToken(8)
	assert.Error(t, err)
}
