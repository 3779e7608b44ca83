// FILE: trackwisp/src/internal/core/record.go
package core

// RawRecord is one encoded record delivered by the stream.
// Data holds base64 text wrapping a single JSON object.
type RawRecord struct {
	Data           string `json:"data"`
	EventID        string `json:"eventID,omitempty"`
	PartitionKey   string `json:"partitionKey,omitempty"`
	SequenceNumber string `json:"sequenceNumber,omitempty"`
}
