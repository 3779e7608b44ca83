// FILE: trackwisp/src/internal/format/raw.go
package format

import (
	"trackwisp/src/internal/core"

	"github.com/lixenwraith/log"
)

// Outputs the encoded record payload as-is, one per line, so the output
// can be replayed as event data
type RawFormatter struct {
	logger *log.Logger
}

func NewRawFormatter(logger *log.Logger) *RawFormatter {
	return &RawFormatter{logger: logger}
}

func (f *RawFormatter) Format(entry core.DiscardEntry) ([]byte, error) {
	return append([]byte(entry.Data), '\n'), nil
}

func (f *RawFormatter) Name() string {
	return "raw"
}
