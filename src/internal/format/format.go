// FILE: trackwisp/src/internal/format/format.go
package format

import (
	"fmt"

	"trackwisp/src/internal/config"
	"trackwisp/src/internal/core"

	"github.com/lixenwraith/log"
)

// Formatter renders a discard entry as one output line
type Formatter interface {
	// Format returns the entry with a trailing newline
	Format(entry core.DiscardEntry) ([]byte, error)

	// Name returns the formatter type name
	Name() string
}

// New creates the formatter selected by the discards section
func New(cfg *config.DiscardsConfig, logger *log.Logger) (Formatter, error) {
	switch cfg.Format {
	case config.DiscardFormatJSON, "":
		pretty := cfg.JSON != nil && cfg.JSON.Pretty
		return NewJSONFormatter(pretty, logger), nil
	case config.DiscardFormatText:
		opts := cfg.Text
		if opts == nil {
			def := config.DefaultDiscardsConfig()
			opts = def.Text
		}
		return NewTextFormatter(opts, logger)
	case config.DiscardFormatRaw:
		return NewRawFormatter(logger), nil
	default:
		return nil, fmt.Errorf("unknown formatter type: %s", cfg.Format)
	}
}
