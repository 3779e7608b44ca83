// FILE: trackwisp/src/internal/ingest/invoker.go
package ingest

import (
	"context"
	"errors"

	"trackwisp/src/internal/core"
	"trackwisp/src/internal/dispatch"
	"trackwisp/src/internal/pipeline"
)

// Invoker runs one invocation over a record sequence
type Invoker interface {
	Run(ctx context.Context, records []core.RawRecord) (pipeline.Summary, error)
}

// StatusFunc supplies the body of the status endpoint
type StatusFunc func() map[string]any

// failureKind names an invocation error for clients
func failureKind(err error) string {
	// Cancellation surfaces wrapped in a dispatch error
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "cancelled"
	}
	var dErr *dispatch.Error
	if errors.As(err, &dErr) {
		return string(dErr.Kind)
	}
	return string(dispatch.KindUnclassified)
}
