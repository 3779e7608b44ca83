// FILE: trackwisp/src/cmd/trackwisp/event.go
package main

import (
	"context"
	"encoding/json"
	"errors"

	"trackwisp/src/internal/dispatch"
	"trackwisp/src/internal/source"
)

// Exit codes of a one-shot invocation
const (
	exitOK             = 0
	exitFailure        = 1
	exitConfig         = 2
	exitDispatchFailed = 3
)

// runEvent performs a single invocation from an event file or stdin and
// prints its summary as JSON on stdout
func runEvent(ctx context.Context, svc *Service, eventPath string, maxBytes int64) int {
	records, err := source.ReadEventFile(eventPath, maxBytes)
	if err != nil {
		svc.logger.Error("msg", "Failed to read event",
			"component", "main",
			"event", eventPath,
			"error", err)
		stderrf("Failed to read event: %v\n", err)
		return exitFailure
	}

	summary, runErr := svc.driver.Run(ctx, records)

	out, err := json.Marshal(summary)
	if err == nil {
		stdoutf("%s\n", out)
	}

	if runErr != nil {
		var dispatchErr *dispatch.Error
		if errors.As(runErr, &dispatchErr) {
			stderrf("Dispatch failed (%s): %v\n", dispatchErr.Kind, runErr)
			return exitDispatchFailed
		}
		stderrf("Invocation failed: %v\n", runErr)
		return exitFailure
	}
	return exitOK
}
