// FILE: trackwisp/src/internal/source/event.go
package source

import (
	"bytes"
	"encoding/json"
	"fmt"

	"trackwisp/src/internal/core"
)

// Event is the stream delivery envelope: one invocation worth of records
type Event struct {
	Records []EventRecord `json:"Records"`
}

// EventRecord is one stream record and its metadata
type EventRecord struct {
	EventID        string        `json:"eventID"`
	EventSource    string        `json:"eventSource,omitempty"`
	EventSourceARN string        `json:"eventSourceARN,omitempty"`
	Kinesis        KinesisRecord `json:"kinesis"`
}

// KinesisRecord carries the base64 payload
type KinesisRecord struct {
	Data           string `json:"data"`
	PartitionKey   string `json:"partitionKey"`
	SequenceNumber string `json:"sequenceNumber"`
}

// DecodeEvent parses an envelope into raw records, keeping record order.
// Record payloads are not inspected here; a bad payload is discarded later
// without failing the invocation.
func DecodeEvent(data []byte) ([]core.RawRecord, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty event")
	}

	var event Event
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&event); err != nil {
		return nil, fmt.Errorf("invalid event envelope: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("invalid event envelope: trailing data")
	}
	if event.Records == nil {
		return nil, fmt.Errorf("invalid event envelope: missing Records")
	}

	return event.RawRecords(), nil
}

// RawRecords converts the envelope to pipeline input
func (e Event) RawRecords() []core.RawRecord {
	records := make([]core.RawRecord, len(e.Records))
	for i, r := range e.Records {
		records[i] = core.RawRecord{
			Data:           r.Kinesis.Data,
			EventID:        r.EventID,
			PartitionKey:   r.Kinesis.PartitionKey,
			SequenceNumber: r.Kinesis.SequenceNumber,
		}
	}
	return records
}

// EncodeEvent builds an envelope from raw records
func EncodeEvent(records []core.RawRecord) ([]byte, error) {
	event := Event{Records: make([]EventRecord, len(records))}
	for i, r := range records {
		event.Records[i] = EventRecord{
			EventID:     r.EventID,
			EventSource: "aws:kinesis",
			Kinesis: KinesisRecord{
				Data:           r.Data,
				PartitionKey:   r.PartitionKey,
				SequenceNumber: r.SequenceNumber,
			},
		}
	}
	return json.Marshal(event)
}
