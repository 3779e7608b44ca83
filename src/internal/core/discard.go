// FILE: trackwisp/src/internal/core/discard.go
package core

import "time"

// DiscardEntry records one skipped record for the discard sink
type DiscardEntry struct {
	Time           time.Time
	Reason         string
	Detail         string
	EventID        string
	PartitionKey   string
	SequenceNumber string

	// Encoded payload, empty unless the sink asked for it
	Data string
}
