// FILE: trackwisp/src/internal/config/filter.go
package config

import (
	"fmt"
	"regexp"
	"strings"
)

// Filter types
const (
	FilterTypeInclude = "include"
	FilterTypeExclude = "exclude"
)

// Filter logic
const (
	FilterLogicOr  = "or"
	FilterLogicAnd = "and"
)

// Filter fields; a property is addressed as "properties.<key>"
const (
	FilterFieldDeviceID       = "device_id"
	FilterFieldPropertyPrefix = "properties."
)

// FilterConfig drops updates by regular expression before batching
type FilterConfig struct {
	// "include": keep matching updates, "exclude": drop them
	Type string `toml:"type"`

	// "or": any pattern matches, "and": all must match
	Logic string `toml:"logic"`

	// Matched value, default device_id
	Field string `toml:"field"`

	Patterns []string `toml:"patterns"`
}

func validateFilter(index int, f *FilterConfig) error {
	if f.Type == "" {
		f.Type = FilterTypeInclude
	}
	if f.Logic == "" {
		f.Logic = FilterLogicOr
	}
	if f.Field == "" {
		f.Field = FilterFieldDeviceID
	}

	if f.Type != FilterTypeInclude && f.Type != FilterTypeExclude {
		return fmt.Errorf("filter[%d]: invalid type '%s'", index, f.Type)
	}
	if f.Logic != FilterLogicOr && f.Logic != FilterLogicAnd {
		return fmt.Errorf("filter[%d]: invalid logic '%s'", index, f.Logic)
	}
	if f.Field != FilterFieldDeviceID &&
		(!strings.HasPrefix(f.Field, FilterFieldPropertyPrefix) || len(f.Field) == len(FilterFieldPropertyPrefix)) {
		return fmt.Errorf("filter[%d]: invalid field '%s' (device_id or properties.<key>)", index, f.Field)
	}
	if len(f.Patterns) == 0 {
		return fmt.Errorf("filter[%d]: no patterns", index)
	}
	for i, p := range f.Patterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("filter[%d]: invalid regex pattern[%d] '%s': %w", index, i, p, err)
		}
	}
	return nil
}
