// FILE: trackwisp/src/internal/ingest/limiter_test.go
package ingest

import (
	"testing"

	"trackwisp/src/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter(t *testing.T) {
	t.Run("DisabledIsNil", func(t *testing.T) {
		l := NewLimiter(config.RateLimitConfig{Enabled: false})
		assert.Nil(t, l)
		assert.True(t, l.Allow("10.0.0.1:1"))
		assert.Equal(t, false, l.GetStats()["enabled"])
		l.Stop()
	})

	t.Run("PerClientBurst", func(t *testing.T) {
		l := NewLimiter(config.RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 0.001,
			BurstSize:         2,
		})
		require.NotNil(t, l)
		defer l.Stop()

		assert.True(t, l.Allow("10.0.0.1:1000"))
		assert.True(t, l.Allow("10.0.0.1:2000"), "port does not matter")
		assert.False(t, l.Allow("10.0.0.1:3000"))

		assert.True(t, l.Allow("10.0.0.2:1000"))

		stats := l.GetStats()
		assert.Equal(t, 2, stats["active_clients"])
		assert.Equal(t, uint64(1), stats["rejected"])
	})
}
