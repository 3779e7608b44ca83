// FILE: trackwisp/src/internal/format/json.go
package format

import (
	"encoding/json"
	"fmt"
	"time"

	"trackwisp/src/internal/core"

	"github.com/lixenwraith/log"
)

// JSONFormatter writes one JSON object per entry
type JSONFormatter struct {
	pretty bool
	logger *log.Logger
}

type jsonEntry struct {
	Time           string `json:"time"`
	Reason         string `json:"reason"`
	Detail         string `json:"detail,omitempty"`
	EventID        string `json:"event_id,omitempty"`
	PartitionKey   string `json:"partition_key,omitempty"`
	SequenceNumber string `json:"sequence_number,omitempty"`
	Data           string `json:"data,omitempty"`
}

func NewJSONFormatter(pretty bool, logger *log.Logger) *JSONFormatter {
	return &JSONFormatter{pretty: pretty, logger: logger}
}

// Format transforms a single entry into a JSON line
func (f *JSONFormatter) Format(entry core.DiscardEntry) ([]byte, error) {
	out := jsonEntry{
		Time:           entry.Time.UTC().Format(time.RFC3339Nano),
		Reason:         entry.Reason,
		Detail:         entry.Detail,
		EventID:        entry.EventID,
		PartitionKey:   entry.PartitionKey,
		SequenceNumber: entry.SequenceNumber,
		Data:           entry.Data,
	}

	var result []byte
	var err error
	if f.pretty {
		result, err = json.MarshalIndent(out, "", "  ")
	} else {
		result, err = json.Marshal(out)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return append(result, '\n'), nil
}

func (f *JSONFormatter) Name() string {
	return "json"
}
