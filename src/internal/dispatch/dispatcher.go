// FILE: trackwisp/src/internal/dispatch/dispatcher.go
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trackwisp/src/internal/core"
	"trackwisp/src/internal/tracker"

	"github.com/lixenwraith/log"
)

// Dispatcher sends batches to one tracker through a shared client
type Dispatcher struct {
	client      tracker.Client
	trackerName string
	logger      *log.Logger
}

// New creates a dispatcher for the named tracker
func New(client tracker.Client, trackerName string, logger *log.Logger) (*Dispatcher, error) {
	if client == nil {
		return nil, fmt.Errorf("tracker client cannot be nil")
	}
	return &Dispatcher{
		client:      client,
		trackerName: trackerName,
		logger:      logger,
	}, nil
}

// TrackerName returns the destination tracker
func (d *Dispatcher) TrackerName() string {
	return d.trackerName
}

// Dispatch sends one batch in a single call. Any failure comes back as
// *Error; per-update errors inside a successful call are logged and
// returned in the result.
func (d *Dispatcher) Dispatch(ctx context.Context, b core.Batch) (*tracker.BatchResult, error) {
	if err := tracker.ValidateRequest(d.trackerName, b.Updates); err != nil {
		return nil, d.fail(b, KindParamValidation, err)
	}

	start := time.Now()
	result, err := d.client.BatchUpdateDevicePosition(ctx, d.trackerName, b.Updates)
	if err != nil {
		return nil, d.fail(b, classify(err), err)
	}
	if result == nil {
		result = &tracker.BatchResult{}
	}

	for _, ue := range result.Errors {
		d.logger.Warn("msg", "Tracker rejected update",
			"component", "dispatcher",
			"tracker", d.trackerName,
			"batch", b.Seq,
			"device_id", ue.DeviceID,
			"sample_time", ue.SampleTime,
			"code", ue.Error.Code,
			"error", ue.Error.Message)
	}

	d.logger.Debug("msg", "Batch sent",
		"component", "dispatcher",
		"tracker", d.trackerName,
		"backend", d.client.Backend(),
		"batch", b.Seq,
		"size", b.Len(),
		"rejected", len(result.Errors),
		"duration_ms", time.Since(start).Milliseconds())

	return result, nil
}

func (d *Dispatcher) fail(b core.Batch, kind Kind, err error) *Error {
	dErr := &Error{
		Kind:    kind,
		Tracker: d.trackerName,
		Batch:   b,
		Err:     err,
	}
	d.logger.Error("msg", "Batch dispatch failed",
		"component", "dispatcher",
		"tracker", d.trackerName,
		"batch", b.Seq,
		"kind", string(kind),
		"error", dErr.Error())
	return dErr
}

func classify(err error) Kind {
	var vErr *tracker.ValidationError
	if errors.As(err, &vErr) {
		return KindParamValidation
	}
	var sErr *tracker.ServiceError
	if errors.As(err, &sErr) {
		return KindService
	}
	return KindUnclassified
}
