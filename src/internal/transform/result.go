// FILE: trackwisp/src/internal/transform/result.go
package transform

import (
	"fmt"
	"strings"

	"trackwisp/src/internal/core"
)

// Reason classifies why a record produced no update
type Reason string

const (
	ReasonDecode          Reason = "decode_error"
	ReasonMissingFields   Reason = "missing_fields"
	ReasonInvalidPosition Reason = "invalid_position"

	// Valid update rejected by a configured filter
	ReasonFiltered Reason = "filtered"
)

// Discard describes a record that was skipped. It is an expected outcome,
// not a pipeline error.
type Discard struct {
	Reason Reason
	// Required fields that produced no match, in DeviceId, SampleTime,
	// Longitude, Latitude order
	Missing []string
	Err     error
}

func (d *Discard) String() string {
	switch {
	case len(d.Missing) > 0:
		return fmt.Sprintf("%s (%s)", d.Reason, strings.Join(d.Missing, ", "))
	case d.Err != nil:
		return fmt.Sprintf("%s: %v", d.Reason, d.Err)
	default:
		return string(d.Reason)
	}
}

// Result is either an Update or a Discard
type Result struct {
	Update  core.Update
	Discard *Discard

	// Soft losses on an otherwise valid update
	PropertiesDropped bool
	AccuracyDropped   bool
}

// Ok reports whether the record produced an update
func (r Result) Ok() bool {
	return r.Discard == nil
}

func discarded(reason Reason, missing []string, err error) Result {
	return Result{Discard: &Discard{Reason: reason, Missing: missing, Err: err}}
}
