// FILE: trackwisp/src/internal/filter/chain.go
package filter

import (
	"fmt"
	"sync/atomic"

	"trackwisp/src/internal/config"
	"trackwisp/src/internal/core"

	"github.com/lixenwraith/log"
)

// Chain applies filters in order; an update must pass all of them
type Chain struct {
	filters []*Filter
	logger  *log.Logger

	// Statistics
	totalProcessed atomic.Uint64
	totalPassed    atomic.Uint64
}

// NewChain creates a chain from filter configurations. It returns nil, nil
// for an empty list; a nil chain passes everything.
func NewChain(configs []config.FilterConfig, logger *log.Logger) (*Chain, error) {
	if len(configs) == 0 {
		return nil, nil
	}

	chain := &Chain{
		filters: make([]*Filter, 0, len(configs)),
		logger:  logger,
	}

	for i, cfg := range configs {
		filter, err := NewFilter(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("filter[%d]: %w", i, err)
		}
		chain.filters = append(chain.filters, filter)
	}

	logger.Info("msg", "Filter chain created",
		"component", "filter_chain",
		"filter_count", len(configs))
	return chain, nil
}

// Apply runs an update through every filter
func (c *Chain) Apply(u core.Update) bool {
	if c == nil {
		return true
	}
	c.totalProcessed.Add(1)

	for i, filter := range c.filters {
		if !filter.Apply(u) {
			c.logger.Debug("msg", "Update filtered out",
				"component", "filter_chain",
				"filter_index", i,
				"filter_type", filter.config.Type,
				"device_id", u.DeviceID)
			return false
		}
	}

	c.totalPassed.Add(1)
	return true
}

// GetStats returns chain and per-filter statistics
func (c *Chain) GetStats() map[string]any {
	if c == nil {
		return map[string]any{"filter_count": 0}
	}

	filterStats := make([]map[string]any, len(c.filters))
	for i, filter := range c.filters {
		filterStats[i] = filter.GetStats()
	}

	return map[string]any{
		"filter_count":    len(c.filters),
		"total_processed": c.totalProcessed.Load(),
		"total_passed":    c.totalPassed.Load(),
		"filters":         filterStats,
	}
}
