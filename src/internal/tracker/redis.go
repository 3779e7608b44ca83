// FILE: trackwisp/src/internal/tracker/redis.go
package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"trackwisp/src/internal/config"
	"trackwisp/src/internal/core"

	"github.com/lixenwraith/log"
	"github.com/redis/go-redis/v9"
)

// latestSuffix names the hash holding the newest update per device
const latestSuffix = ":latest"

// RedisClient appends updates to a per-tracker Redis stream and keeps the
// latest position of each device in a companion hash
type RedisClient struct {
	config  *config.TrackerRedisConfig
	client  *redis.Client
	timeout time.Duration
	logger  *log.Logger

	totalCalls  atomic.Uint64
	failedCalls atomic.Uint64
}

// NewRedisClient connects and pings the server once
func NewRedisClient(opts *config.TrackerRedisConfig, logger *log.Logger) (*RedisClient, error) {
	if opts == nil {
		return nil, fmt.Errorf("redis tracker options cannot be nil")
	}
	if opts.Addr == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}

	timeout := time.Duration(opts.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           int(opts.DB),
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		MaxRetries:   1,
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", opts.Addr, err)
	}

	logger.Info("msg", "Redis tracker backend connected",
		"component", "redis_tracker",
		"addr", opts.Addr,
		"db", opts.DB)

	return &RedisClient{
		config:  opts,
		client:  client,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Backend returns "redis"
func (r *RedisClient) Backend() string {
	return config.BackendRedis
}

// Close closes the connection pool
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// StreamKey returns the stream a tracker's updates are appended to
func (r *RedisClient) StreamKey(trackerName string) string {
	return streamKey(r.config.StreamPrefix, trackerName)
}

// BatchUpdateDevicePosition writes the whole batch in one MULTI/EXEC so a
// batch is applied entirely or not at all
func (r *RedisClient) BatchUpdateDevicePosition(ctx context.Context, trackerName string, updates []core.Update) (*BatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	encoded := make([]string, len(updates))
	for i := range updates {
		data, err := json.Marshal(&updates[i])
		if err != nil {
			return nil, fmt.Errorf("failed to encode update %d: %w", i, err)
		}
		encoded[i] = string(data)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	stream := r.StreamKey(trackerName)
	r.totalCalls.Add(1)

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, u := range updates {
			pipe.XAdd(ctx, &redis.XAddArgs{
				Stream: stream,
				MaxLen: r.config.MaxLen,
				Approx: r.config.MaxLen > 0,
				Values: map[string]any{
					"device_id":   u.DeviceID,
					"sample_time": u.SampleTime,
					"update":      encoded[i],
				},
			})
			pipe.HSet(ctx, stream+latestSuffix, u.DeviceID, encoded[i])
		}
		return nil
	})
	if err != nil {
		r.failedCalls.Add(1)
		return nil, classifyRedisError(err)
	}

	r.logger.Debug("msg", "Batch appended to stream",
		"component", "redis_tracker",
		"stream", stream,
		"batch_size", len(updates))

	return &BatchResult{}, nil
}

// GetStats returns call counters
func (r *RedisClient) GetStats() map[string]any {
	return map[string]any{
		"backend":      config.BackendRedis,
		"addr":         r.config.Addr,
		"total_calls":  r.totalCalls.Load(),
		"failed_calls": r.failedCalls.Load(),
	}
}

func streamKey(prefix, trackerName string) string {
	return prefix + trackerName
}

// classifyRedisError turns server replies into *ServiceError. Network and
// timeout failures stay as plain errors.
func classifyRedisError(err error) error {
	var redisErr redis.Error
	if errors.As(err, &redisErr) && !errors.Is(err, redis.Nil) {
		msg := redisErr.Error()
		code, rest, found := strings.Cut(msg, " ")
		if !found {
			rest = msg
		}
		return &ServiceError{
			Backend: config.BackendRedis,
			Code:    code,
			Message: rest,
		}
	}
	return fmt.Errorf("redis call failed: %w", err)
}
