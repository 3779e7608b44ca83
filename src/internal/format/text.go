// FILE: trackwisp/src/internal/format/text.go
package format

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"trackwisp/src/internal/config"
	"trackwisp/src/internal/core"

	"github.com/lixenwraith/log"
)

// Produces human-readable lines from a template
type TextFormatter struct {
	config   *config.DiscardTextConfig
	template *template.Template
	logger   *log.Logger
}

func NewTextFormatter(opts *config.DiscardTextConfig, logger *log.Logger) (*TextFormatter, error) {
	f := &TextFormatter{
		config: opts,
		logger: logger,
	}

	funcMap := template.FuncMap{
		"FmtTime": func(t time.Time) string {
			return t.Format(f.config.TimestampFormat)
		},
		"ToUpper":   strings.ToUpper,
		"ToLower":   strings.ToLower,
		"TrimSpace": strings.TrimSpace,
	}

	tmpl, err := template.New("discard").Funcs(funcMap).Parse(opts.Template)
	if err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}

	f.template = tmpl
	return f, nil
}

func (f *TextFormatter) Format(entry core.DiscardEntry) ([]byte, error) {
	data := map[string]any{
		"Timestamp":      entry.Time,
		"Reason":         entry.Reason,
		"Detail":         entry.Detail,
		"EventID":        entry.EventID,
		"PartitionKey":   entry.PartitionKey,
		"SequenceNumber": entry.SequenceNumber,
		"Data":           entry.Data,
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		f.logger.Debug("msg", "Template execution failed, using fallback",
			"component", "text_formatter",
			"error", err)

		fallback := fmt.Sprintf("[%s] %s event=%s\n",
			entry.Time.Format(f.config.TimestampFormat),
			entry.Reason,
			entry.EventID)
		return []byte(fallback), nil
	}

	result := buf.Bytes()
	if len(result) == 0 || result[len(result)-1] != '\n' {
		result = append(result, '\n')
	}
	return result, nil
}

func (f *TextFormatter) Name() string {
	return "text"
}
