// FILE: trackwisp/src/internal/sink/file.go
package sink

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"trackwisp/src/internal/config"
	"trackwisp/src/internal/core"
	"trackwisp/src/internal/format"

	"github.com/lixenwraith/log"
)

// FileSink writes entries to rotated files
type FileSink struct {
	input     chan core.DiscardEntry
	writer    *log.Logger // Internal logger instance for file writing
	directory string
	name      string
	done      chan struct{}
	wg        sync.WaitGroup
	stopOnce  sync.Once
	startTime time.Time
	logger    *log.Logger // Application logger
	formatter format.Formatter

	// Statistics
	totalProcessed atomic.Uint64
	formatErrors   atomic.Uint64
	lastProcessed  atomic.Value // time.Time
}

// NewFileSink starts a dedicated file writer. Rotation and retention follow
// the same keys as the application log file.
func NewFileSink(cfg *config.RotatedFile, size int64, formatter format.Formatter, logger *log.Logger) (*FileSink, error) {
	if cfg == nil || cfg.Directory == "" || cfg.Name == "" {
		return nil, fmt.Errorf("file sink requires directory and name")
	}

	// Entries are preformatted and carry their own timestamp
	writerArgs := append([]string{
		"disable_file=false",
		"enable_console=false",
		"show_timestamp=false",
		"show_level=false",
		"format=raw",
	}, cfg.LogArgs()...)

	writer := log.NewLogger()
	if err := writer.ApplyConfigString(writerArgs...); err != nil {
		return nil, fmt.Errorf("failed to configure file writer: %w", err)
	}
	if err := writer.Start(); err != nil {
		return nil, fmt.Errorf("failed to start file writer: %w", err)
	}

	fs := &FileSink{
		input:     make(chan core.DiscardEntry, bufferSize(size)),
		writer:    writer,
		directory: cfg.Directory,
		name:      cfg.Name,
		done:      make(chan struct{}),
		startTime: time.Now(),
		logger:    logger,
		formatter: formatter,
	}
	fs.lastProcessed.Store(time.Time{})

	return fs, nil
}

func (fs *FileSink) Input() chan<- core.DiscardEntry {
	return fs.input
}

func (fs *FileSink) Start(ctx context.Context) error {
	fs.wg.Add(1)
	go fs.processLoop(ctx)
	fs.logger.Info("msg", "File discard sink started",
		"component", "file_sink",
		"directory", fs.directory,
		"name", fs.name,
		"format", fs.formatter.Name())
	return nil
}

func (fs *FileSink) Stop() {
	fs.stopOnce.Do(func() {
		close(fs.done)
		fs.wg.Wait()

		if err := fs.writer.Shutdown(2 * time.Second); err != nil {
			fs.logger.Error("msg", "Error shutting down file writer",
				"component", "file_sink",
				"error", err)
		}

		fs.logger.Info("msg", "File discard sink stopped",
			"component", "file_sink",
			"processed", fs.totalProcessed.Load())
	})
}

func (fs *FileSink) GetStats() Stats {
	lastProc, _ := fs.lastProcessed.Load().(time.Time)

	return Stats{
		Type:           "file",
		Format:         fs.formatter.Name(),
		TotalProcessed: fs.totalProcessed.Load(),
		FormatErrors:   fs.formatErrors.Load(),
		StartTime:      fs.startTime,
		LastProcessed:  lastProc,
		Details: map[string]any{
			"directory": fs.directory,
			"name":      fs.name,
			"pending":   len(fs.input),
		},
	}
}

func (fs *FileSink) processLoop(ctx context.Context) {
	defer fs.wg.Done()

	for {
		select {
		case entry := <-fs.input:
			fs.write(entry)
		case <-ctx.Done():
			fs.drain()
			return
		case <-fs.done:
			fs.drain()
			return
		}
	}
}

func (fs *FileSink) drain() {
	for {
		select {
		case entry := <-fs.input:
			fs.write(entry)
		default:
			return
		}
	}
}

func (fs *FileSink) write(entry core.DiscardEntry) {
	fs.totalProcessed.Add(1)
	fs.lastProcessed.Store(time.Now())

	formatted, err := fs.formatter.Format(entry)
	if err != nil {
		fs.formatErrors.Add(1)
		fs.logger.Error("msg", "Failed to format discard entry",
			"component", "file_sink",
			"error", err)
		return
	}

	// Convert to string to prevent hex encoding of []byte by log package
	// Strip new line, writer adds it
	fs.writer.Message(string(bytes.TrimSuffix(formatted, []byte{'\n'})))
}
