// FILE: trackwisp/src/internal/filter/filter.go
package filter

import (
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"

	"trackwisp/src/internal/config"
	"trackwisp/src/internal/core"

	"github.com/lixenwraith/log"
)

// Filter keeps or drops updates by matching one field against patterns
type Filter struct {
	config   config.FilterConfig
	property string // set when Field addresses a position property
	patterns []*regexp.Regexp
	logger   *log.Logger

	// Statistics
	totalProcessed atomic.Uint64
	totalMatched   atomic.Uint64
	totalDropped   atomic.Uint64
}

// NewFilter compiles a filter, filling type, logic and field defaults
func NewFilter(cfg config.FilterConfig, logger *log.Logger) (*Filter, error) {
	if cfg.Type == "" {
		cfg.Type = config.FilterTypeInclude
	}
	if cfg.Logic == "" {
		cfg.Logic = config.FilterLogicOr
	}
	if cfg.Field == "" {
		cfg.Field = config.FilterFieldDeviceID
	}

	f := &Filter{
		config:   cfg,
		patterns: make([]*regexp.Regexp, 0, len(cfg.Patterns)),
		logger:   logger,
	}

	switch {
	case cfg.Field == config.FilterFieldDeviceID:
	case strings.HasPrefix(cfg.Field, config.FilterFieldPropertyPrefix):
		f.property = strings.TrimPrefix(cfg.Field, config.FilterFieldPropertyPrefix)
		if f.property == "" {
			return nil, fmt.Errorf("empty property name in field '%s'", cfg.Field)
		}
	default:
		return nil, fmt.Errorf("unknown filter field '%s'", cfg.Field)
	}

	for i, pattern := range cfg.Patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern[%d] '%s': %w", i, pattern, err)
		}
		f.patterns = append(f.patterns, re)
	}

	logger.Debug("msg", "Filter created",
		"component", "filter",
		"type", cfg.Type,
		"logic", cfg.Logic,
		"field", cfg.Field,
		"pattern_count", len(cfg.Patterns))

	return f, nil
}

// Apply reports whether the update passes. A property filter sees an
// absent property as the empty string.
func (f *Filter) Apply(u core.Update) bool {
	f.totalProcessed.Add(1)

	if len(f.patterns) == 0 {
		return true
	}

	value := u.DeviceID
	if f.property != "" {
		value = u.PositionProperties[f.property]
	}

	matched := f.matches(value)
	if matched {
		f.totalMatched.Add(1)
	}

	pass := matched
	if f.config.Type == config.FilterTypeExclude {
		pass = !matched
	}
	if !pass {
		f.totalDropped.Add(1)
	}
	return pass
}

func (f *Filter) matches(text string) bool {
	if f.config.Logic == config.FilterLogicAnd {
		for _, re := range f.patterns {
			if !re.MatchString(text) {
				return false
			}
		}
		return true
	}

	for _, re := range f.patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// GetStats returns filter statistics
func (f *Filter) GetStats() map[string]any {
	return map[string]any{
		"type":            f.config.Type,
		"logic":           f.config.Logic,
		"field":           f.config.Field,
		"pattern_count":   len(f.patterns),
		"total_processed": f.totalProcessed.Load(),
		"total_matched":   f.totalMatched.Load(),
		"total_dropped":   f.totalDropped.Load(),
	}
}
