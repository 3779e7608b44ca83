// FILE: trackwisp/src/internal/sink/sink.go
package sink

import (
	"context"
	"fmt"
	"time"

	"trackwisp/src/internal/config"
	"trackwisp/src/internal/core"
	"trackwisp/src/internal/format"

	"github.com/lixenwraith/log"
)

// Sink is an output destination for discarded records
type Sink interface {
	// Input returns the channel for sending entries to this sink
	Input() chan<- core.DiscardEntry

	// Start begins processing entries
	Start(ctx context.Context) error

	// Stop drains queued entries and shuts the sink down
	Stop()

	// GetStats returns sink statistics
	GetStats() Stats
}

// Stats contains statistics about a sink
type Stats struct {
	Type           string
	Format         string
	TotalProcessed uint64
	FormatErrors   uint64
	StartTime      time.Time
	LastProcessed  time.Time
	Details        map[string]any
}

// New creates the sink selected by the discards section. Returns nil when
// the section is disabled.
func New(cfg *config.DiscardsConfig, logger *log.Logger) (Sink, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	formatter, err := format.New(cfg, logger)
	if err != nil {
		return nil, err
	}

	switch cfg.Type {
	case config.DiscardSinkConsole, "":
		target := "stderr"
		if cfg.Console != nil && cfg.Console.Target != "" {
			target = cfg.Console.Target
		}
		return NewConsoleSink(target, cfg.BufferSize, formatter, logger)
	case config.DiscardSinkFile:
		return NewFileSink(cfg.File, cfg.BufferSize, formatter, logger)
	default:
		return nil, fmt.Errorf("unknown sink type: %s", cfg.Type)
	}
}

func bufferSize(size int64) int64 {
	if size <= 0 {
		return 1000
	}
	return size
}
