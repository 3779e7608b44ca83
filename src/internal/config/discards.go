// FILE: trackwisp/src/internal/config/discards.go
package config

import (
	"fmt"
	"text/template"
)

// Discard sink types and formats
const (
	DiscardSinkConsole = "console"
	DiscardSinkFile    = "file"

	DiscardFormatJSON = "json"
	DiscardFormatText = "text"
	DiscardFormatRaw  = "raw"
)

// DefaultDiscardTemplate renders one discarded record per line
const DefaultDiscardTemplate = `[{{FmtTime .Timestamp}}] {{.Reason}} event={{.EventID}} partition={{.PartitionKey}} sequence={{.SequenceNumber}}{{if .Detail}} detail="{{.Detail}}"{{end}}`

// DiscardsConfig routes skipped records to a side output for inspection
type DiscardsConfig struct {
	Enabled bool `toml:"enabled"`

	// Sink type: "console" or "file"
	Type string `toml:"type"`

	// Entry format: "json", "text" or "raw"
	Format string `toml:"format"`

	// Copy the encoded record payload into each entry
	IncludeData bool `toml:"include_data"`

	// Entries queued beyond this are dropped, never blocking an invocation
	BufferSize int64 `toml:"buffer_size"`

	Console *DiscardConsoleConfig `toml:"console"`
	File    *RotatedFile          `toml:"file"`
	JSON    *DiscardJSONConfig    `toml:"json"`
	Text    *DiscardTextConfig    `toml:"text"`
}

type DiscardConsoleConfig struct {
	// "stdout" or "stderr"
	Target string `toml:"target"`
}

type DiscardJSONConfig struct {
	Pretty bool `toml:"pretty"`
}

type DiscardTextConfig struct {
	Template        string `toml:"template"`
	TimestampFormat string `toml:"timestamp_format"`
}

// DefaultDiscardsConfig returns a disabled console sink in JSON
func DefaultDiscardsConfig() DiscardsConfig {
	return DiscardsConfig{
		Enabled:    false,
		Type:       DiscardSinkConsole,
		Format:     DiscardFormatJSON,
		BufferSize: 1000,
		Console:    &DiscardConsoleConfig{Target: "stderr"},
		File:       defaultRotatedFile("trackwisp-discards"),
		JSON:       &DiscardJSONConfig{},
		Text: &DiscardTextConfig{
			Template:        DefaultDiscardTemplate,
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		},
	}
}

func validateDiscards(d *DiscardsConfig) error {
	if !d.Enabled {
		return nil
	}

	def := DefaultDiscardsConfig()
	if d.Type == "" {
		d.Type = def.Type
	}
	if d.Format == "" {
		d.Format = def.Format
	}
	if d.BufferSize <= 0 {
		d.BufferSize = def.BufferSize
	}

	switch d.Type {
	case DiscardSinkConsole:
		if d.Console == nil {
			d.Console = def.Console
		}
		if d.Console.Target == "" {
			d.Console.Target = def.Console.Target
		}
		if d.Console.Target != "stdout" && d.Console.Target != "stderr" {
			return fmt.Errorf("invalid console target: %s", d.Console.Target)
		}
	case DiscardSinkFile:
		if d.File == nil {
			d.File = def.File
		}
		if d.File.Directory == "" || d.File.Name == "" {
			return fmt.Errorf("file sink requires directory and name")
		}
	default:
		return fmt.Errorf("invalid sink type: %s", d.Type)
	}

	switch d.Format {
	case DiscardFormatJSON:
		if d.JSON == nil {
			d.JSON = def.JSON
		}
	case DiscardFormatText:
		if d.Text == nil {
			d.Text = def.Text
		}
		if d.Text.Template == "" {
			d.Text.Template = def.Text.Template
		}
		if d.Text.TimestampFormat == "" {
			d.Text.TimestampFormat = def.Text.TimestampFormat
		}
		if _, err := template.New("discard").Funcs(template.FuncMap{"FmtTime": func(any) string { return "" }}).Parse(d.Text.Template); err != nil {
			return fmt.Errorf("invalid text template: %w", err)
		}
	case DiscardFormatRaw:
		if !d.IncludeData {
			return fmt.Errorf("raw format requires include_data")
		}
	default:
		return fmt.Errorf("invalid format: %s", d.Format)
	}

	return nil
}
