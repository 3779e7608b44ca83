// FILE: trackwisp/src/internal/pipeline/driver.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"trackwisp/src/internal/batch"
	"trackwisp/src/internal/core"
	"trackwisp/src/internal/dispatch"
	"trackwisp/src/internal/filter"
	"trackwisp/src/internal/transform"

	"github.com/lixenwraith/log"
)

// Summary describes one invocation
type Summary struct {
	Records           int            `json:"records"`
	Updates           int            `json:"updates"`
	Discarded         int            `json:"discarded"`
	Discards          map[string]int `json:"discards,omitempty"`
	PropertiesDropped int            `json:"properties_dropped"`
	AccuracyDropped   int            `json:"accuracy_dropped"`
	Batches           int            `json:"batches"`
	RejectedUpdates   int            `json:"rejected_updates"`
	DurationMS        int64          `json:"duration_ms"`
}

// Driver runs invocations end to end. The transformer and dispatcher are
// shared; every Run gets its own accumulator so concurrent invocations
// never mix updates.
type Driver struct {
	transformer *transform.Transformer
	dispatcher  *dispatch.Dispatcher
	filters     *filter.Chain
	discards    chan<- core.DiscardEntry
	withData    bool
	batchSize   int
	metrics     *Metrics
	logger      *log.Logger

	// Statistics
	invocations       atomic.Uint64
	failedInvocations atomic.Uint64
	totalRecords      atomic.Uint64
	totalUpdates      atomic.Uint64
	totalDiscarded    atomic.Uint64
	totalBatches      atomic.Uint64
	droppedDiscards   atomic.Uint64
	lastInvocation    atomic.Value // time.Time
	startTime         time.Time
}

// New creates a driver. A nil metrics set gets a private one.
func New(transformer *transform.Transformer, dispatcher *dispatch.Dispatcher, batchSize int, metrics *Metrics, logger *log.Logger) (*Driver, error) {
	if transformer == nil {
		return nil, fmt.Errorf("transformer cannot be nil")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher cannot be nil")
	}
	if batchSize < 1 || batchSize > core.MaxBatchSize {
		return nil, fmt.Errorf("batch size must be between 1 and %d, got %d", core.MaxBatchSize, batchSize)
	}
	if metrics == nil {
		metrics = NewMetrics()
	}

	d := &Driver{
		transformer: transformer,
		dispatcher:  dispatcher,
		batchSize:   batchSize,
		metrics:     metrics,
		logger:      logger,
		startTime:   time.Now(),
	}
	d.lastInvocation.Store(time.Time{})
	return d, nil
}

// SetFilters installs the update filter chain, nil passes everything.
// Call before the first Run.
func (d *Driver) SetFilters(chain *filter.Chain) {
	d.filters = chain
}

// SetDiscardSink sends every skipped record to out without blocking.
// Entries that do not fit are counted and dropped. Call before the first Run.
func (d *Driver) SetDiscardSink(out chan<- core.DiscardEntry, includeData bool) {
	d.discards = out
	d.withData = includeData
}

// Metrics returns the driver's metric set
func (d *Driver) Metrics() *Metrics {
	return d.metrics
}

// Run processes one invocation in record order. A batch is sent as soon as
// it fills, before the next record is read. The first dispatch failure ends
// the invocation; batches already sent stay sent.
func (d *Driver) Run(ctx context.Context, records []core.RawRecord) (Summary, error) {
	start := time.Now()
	d.invocations.Add(1)
	d.lastInvocation.Store(start)

	s := Summary{Discards: make(map[string]int)}
	acc := batch.NewAccumulator(d.batchSize)

	err := d.run(ctx, records, acc, &s)

	s.DurationMS = time.Since(start).Milliseconds()
	if len(s.Discards) == 0 {
		s.Discards = nil
	}

	d.totalRecords.Add(uint64(s.Records))
	d.totalUpdates.Add(uint64(s.Updates))
	d.totalDiscarded.Add(uint64(s.Discarded))
	d.totalBatches.Add(uint64(s.Batches))

	if err != nil {
		d.failedInvocations.Add(1)
		d.metrics.Invocations.WithLabelValues("failed").Inc()
		var dErr *dispatch.Error
		if errors.As(err, &dErr) {
			d.metrics.DispatchFailures.WithLabelValues(string(dErr.Kind)).Inc()
		}
		return s, err
	}

	d.metrics.Invocations.WithLabelValues("ok").Inc()
	d.logger.Debug("msg", "Invocation complete",
		"component", "pipeline",
		"records", s.Records,
		"updates", s.Updates,
		"discarded", s.Discarded,
		"batches", s.Batches,
		"duration_ms", s.DurationMS)

	return s, nil
}

func (d *Driver) run(ctx context.Context, records []core.RawRecord, acc *batch.Accumulator, s *Summary) error {
	for _, raw := range records {
		s.Records++
		d.metrics.Records.Inc()

		result := d.transformer.Transform(raw)
		if !result.Ok() {
			d.discard(s, raw, result.Discard.Reason, result.Discard.String())
			continue
		}
		if !d.filters.Apply(result.Update) {
			d.discard(s, raw, transform.ReasonFiltered, "")
			continue
		}

		s.Updates++
		d.metrics.Updates.Inc()
		if result.PropertiesDropped {
			s.PropertiesDropped++
			d.metrics.PropertiesDropped.Inc()
		}
		if result.AccuracyDropped {
			s.AccuracyDropped++
			d.metrics.AccuracyDropped.Inc()
		}

		if b, full := acc.Add(result.Update); full {
			if err := d.send(ctx, b, s); err != nil {
				return err
			}
		}
	}

	if b, ok := acc.Flush(); ok {
		return d.send(ctx, b, s)
	}
	return nil
}

func (d *Driver) discard(s *Summary, raw core.RawRecord, reason transform.Reason, detail string) {
	s.Discarded++
	s.Discards[string(reason)]++
	d.metrics.Discards.WithLabelValues(string(reason)).Inc()

	if d.discards == nil {
		return
	}
	entry := core.DiscardEntry{
		Time:           time.Now(),
		Reason:         string(reason),
		Detail:         detail,
		EventID:        raw.EventID,
		PartitionKey:   raw.PartitionKey,
		SequenceNumber: raw.SequenceNumber,
	}
	if d.withData {
		entry.Data = raw.Data
	}
	select {
	case d.discards <- entry:
	default:
		d.droppedDiscards.Add(1)
	}
}

func (d *Driver) send(ctx context.Context, b core.Batch, s *Summary) error {
	start := time.Now()
	result, err := d.dispatcher.Dispatch(ctx, b)
	d.metrics.ObserveDispatchLatency(start)
	if err != nil {
		return err
	}

	s.Batches++
	d.metrics.Batches.Inc()
	if n := len(result.Errors); n > 0 {
		s.RejectedUpdates += n
		d.metrics.RejectedUpdates.Add(float64(n))
	}
	return nil
}

// GetStats returns driver statistics for the status endpoint and reporter
func (d *Driver) GetStats() map[string]any {
	var lastInvocation time.Time
	if v := d.lastInvocation.Load(); v != nil {
		lastInvocation = v.(time.Time)
	}

	return map[string]any{
		"tracker":            d.dispatcher.TrackerName(),
		"batch_size":         d.batchSize,
		"invocations":        d.invocations.Load(),
		"failed_invocations": d.failedInvocations.Load(),
		"total_records":      d.totalRecords.Load(),
		"total_updates":      d.totalUpdates.Load(),
		"total_discarded":    d.totalDiscarded.Load(),
		"total_batches":      d.totalBatches.Load(),
		"filters":            d.filters.GetStats(),
		"dropped_discards":   d.droppedDiscards.Load(),
		"last_invocation":    lastInvocation,
		"uptime_seconds":     int(time.Since(d.startTime).Seconds()),
	}
}
