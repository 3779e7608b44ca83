// FILE: trackwisp/src/internal/tracker/redis_test.go
package tracker

import (
	"errors"
	"fmt"
	"testing"

	"trackwisp/src/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	logger := newTestLogger()

	t.Run("ErrorNilOptions", func(t *testing.T) {
		_, err := NewRedisClient(nil, logger)
		assert.Error(t, err)
	})

	t.Run("ErrorEmptyAddr", func(t *testing.T) {
		_, err := NewRedisClient(&config.TrackerRedisConfig{}, logger)
		assert.Error(t, err)
	})

	t.Run("ErrorUnreachable", func(t *testing.T) {
		_, err := NewRedisClient(&config.TrackerRedisConfig{
			Addr:      "127.0.0.1:1",
			TimeoutMS: 200,
		}, logger)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to reach redis")
	})
}

func TestStreamKey(t *testing.T) {
	assert.Equal(t, "trackwisp:tracker:fleet", streamKey("trackwisp:tracker:", "fleet"))
	assert.Equal(t, "fleet", streamKey("", "fleet"))
}

func TestClassifyRedisError(t *testing.T) {
	t.Run("ServerReply", func(t *testing.T) {
		// go-redis returns server replies as redis.Error values
		err := classifyRedisError(fakeRedisError("WRONGTYPE Operation against a key holding the wrong kind of value"))

		var svcErr *ServiceError
		require.True(t, errors.As(err, &svcErr))
		assert.Equal(t, config.BackendRedis, svcErr.Backend)
		assert.Equal(t, "WRONGTYPE", svcErr.Code)
		assert.Equal(t, "Operation against a key holding the wrong kind of value", svcErr.Message)
	})

	t.Run("NetworkFailure", func(t *testing.T) {
		err := classifyRedisError(fmt.Errorf("dial tcp: %w", errors.New("connection refused")))

		var svcErr *ServiceError
		assert.False(t, errors.As(err, &svcErr))
		assert.Contains(t, err.Error(), "redis call failed")
	})

	t.Run("NilReplyIsNotServiceError", func(t *testing.T) {
		err := classifyRedisError(redis.Nil)

		var svcErr *ServiceError
		assert.False(t, errors.As(err, &svcErr))
	})
}

type fakeRedisError string

func (e fakeRedisError) Error() string { return string(e) }
func (fakeRedisError) RedisError()     {}
