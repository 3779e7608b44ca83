// FILE: trackwisp/src/internal/dispatch/error.go
package dispatch

import (
	"encoding/json"
	"fmt"

	"trackwisp/src/internal/core"
)

// Kind classifies a failed dispatch
type Kind string

const (
	KindParamValidation Kind = "param_validation"
	KindService         Kind = "service"
	KindUnclassified    Kind = "unclassified"
)

// Error is a labeled dispatch failure. It carries the tracker name and the
// batch that was being sent so the failure can be diagnosed from the log
// line alone.
type Error struct {
	Kind    Kind
	Tracker string
	Batch   core.Batch
	Err     error
}

func (e *Error) Error() string {
	batch, err := json.Marshal(e.Batch.Updates)
	if err != nil {
		batch = []byte(fmt.Sprintf("<%d updates, unencodable: %v>", e.Batch.Len(), err))
	}

	var label string
	switch e.Kind {
	case KindParamValidation:
		label = "Invalid parameters"
	case KindService:
		label = "Tracking service error"
	default:
		label = "Unexpected error"
	}

	return fmt.Sprintf("%s sending batch %d to tracker %q: %v; batch: %s",
		label, e.Batch.Seq, e.Tracker, e.Err, batch)
}

func (e *Error) Unwrap() error {
	return e.Err
}
