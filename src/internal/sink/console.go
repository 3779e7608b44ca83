// FILE: trackwisp/src/internal/sink/console.go
package sink

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"trackwisp/src/internal/core"
	"trackwisp/src/internal/format"

	"github.com/lixenwraith/log"
)

// ConsoleSink writes entries to stdout or stderr
type ConsoleSink struct {
	input     chan core.DiscardEntry
	target    string
	output    io.Writer
	done      chan struct{}
	wg        sync.WaitGroup
	stopOnce  sync.Once
	startTime time.Time
	logger    *log.Logger
	formatter format.Formatter

	// Statistics
	totalProcessed atomic.Uint64
	formatErrors   atomic.Uint64
	lastProcessed  atomic.Value // time.Time
}

// NewConsoleSink creates a sink for "stdout" or "stderr"
func NewConsoleSink(target string, size int64, formatter format.Formatter, logger *log.Logger) (*ConsoleSink, error) {
	var output io.Writer
	switch target {
	case "stdout":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		return nil, fmt.Errorf("invalid console target: %s", target)
	}
	return newConsoleSink(target, output, size, formatter, logger), nil
}

func newConsoleSink(target string, output io.Writer, size int64, formatter format.Formatter, logger *log.Logger) *ConsoleSink {
	s := &ConsoleSink{
		input:     make(chan core.DiscardEntry, bufferSize(size)),
		target:    target,
		output:    output,
		done:      make(chan struct{}),
		startTime: time.Now(),
		logger:    logger,
		formatter: formatter,
	}
	s.lastProcessed.Store(time.Time{})
	return s
}

func (s *ConsoleSink) Input() chan<- core.DiscardEntry {
	return s.input
}

func (s *ConsoleSink) Start(ctx context.Context) error {
	s.wg.Add(1)
	go s.processLoop(ctx)
	s.logger.Info("msg", "Console discard sink started",
		"component", "console_sink",
		"target", s.target,
		"format", s.formatter.Name())
	return nil
}

func (s *ConsoleSink) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.wg.Wait()
		s.logger.Info("msg", "Console discard sink stopped",
			"component", "console_sink",
			"processed", s.totalProcessed.Load())
	})
}

func (s *ConsoleSink) GetStats() Stats {
	lastProc, _ := s.lastProcessed.Load().(time.Time)

	return Stats{
		Type:           "console",
		Format:         s.formatter.Name(),
		TotalProcessed: s.totalProcessed.Load(),
		FormatErrors:   s.formatErrors.Load(),
		StartTime:      s.startTime,
		LastProcessed:  lastProc,
		Details: map[string]any{
			"target":  s.target,
			"pending": len(s.input),
		},
	}
}

func (s *ConsoleSink) processLoop(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case entry := <-s.input:
			s.write(entry)
		case <-ctx.Done():
			s.drain()
			return
		case <-s.done:
			s.drain()
			return
		}
	}
}

// drain writes what is already queued, senders never block so this ends
func (s *ConsoleSink) drain() {
	for {
		select {
		case entry := <-s.input:
			s.write(entry)
		default:
			return
		}
	}
}

func (s *ConsoleSink) write(entry core.DiscardEntry) {
	s.totalProcessed.Add(1)
	s.lastProcessed.Store(time.Now())

	formatted, err := s.formatter.Format(entry)
	if err != nil {
		s.formatErrors.Add(1)
		s.logger.Error("msg", "Failed to format discard entry",
			"component", "console_sink",
			"error", err)
		return
	}
	s.output.Write(formatted)
}
