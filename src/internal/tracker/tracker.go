// FILE: trackwisp/src/internal/tracker/tracker.go
package tracker

import (
	"context"
	"fmt"

	"trackwisp/src/internal/config"
	"trackwisp/src/internal/core"

	"github.com/lixenwraith/log"
)

// Client submits position updates to a named tracker. Implementations are
// created once per process and shared by all invocations.
type Client interface {
	// BatchUpdateDevicePosition sends one batch in a single call
	BatchUpdateDevicePosition(ctx context.Context, trackerName string, updates []core.Update) (*BatchResult, error)

	// Backend returns the backend type name
	Backend() string

	// Close releases the underlying connections
	Close() error
}

// BatchResult lists updates the service accepted the call for but could
// not apply
type BatchResult struct {
	Errors []UpdateError `json:"Errors"`
}

// UpdateError is a per-update failure inside a successful call
type UpdateError struct {
	DeviceID   string      `json:"DeviceId"`
	SampleTime string      `json:"SampleTime"`
	Error      ErrorDetail `json:"Error"`
}

type ErrorDetail struct {
	Code    string `json:"Code"`
	Message string `json:"Message"`
}

// New creates the client for the configured backend
func New(cfg *config.TrackerConfig, logger *log.Logger) (Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("tracker config cannot be nil")
	}

	switch cfg.Backend {
	case config.BackendHTTP:
		return NewHTTPClient(&cfg.HTTP, logger)
	case config.BackendRedis:
		return NewRedisClient(&cfg.Redis, logger)
	default:
		return nil, fmt.Errorf("unknown tracker backend: %s", cfg.Backend)
	}
}
