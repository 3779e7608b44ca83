// FILE: trackwisp/src/cmd/trackwisp/bootstrap.go
package main

import (
	"context"
	"fmt"

	"trackwisp/src/internal/auth"
	"trackwisp/src/internal/config"
	"trackwisp/src/internal/dispatch"
	"trackwisp/src/internal/filter"
	"trackwisp/src/internal/ingest"
	"trackwisp/src/internal/path"
	"trackwisp/src/internal/pipeline"
	"trackwisp/src/internal/sink"
	"trackwisp/src/internal/tracker"
	"trackwisp/src/internal/transform"
	"trackwisp/src/internal/version"

	"github.com/lixenwraith/log"
)

// Service owns the process-wide components shared by every invocation
type Service struct {
	driver        *pipeline.Driver
	client        tracker.Client
	discards      sink.Sink
	authenticator *auth.Authenticator
	httpServer    *ingest.HTTPServer
	tcpServer     *ingest.TCPServer
	logger        *log.Logger
}

// bootstrapService compiles the field paths and builds the invocation chain.
// Ingest servers are created but not started.
func bootstrapService(cfg *config.Config, logger *log.Logger) (*Service, error) {
	fields, err := path.CompileFields(&cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to compile field paths: %w", err)
	}

	transformer, err := transform.New(fields, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create transformer: %w", err)
	}

	filters, err := filter.NewChain(cfg.Filters, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create filters: %w", err)
	}

	client, err := tracker.New(&cfg.Tracker, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracker client: %w", err)
	}

	svc := &Service{client: client, logger: logger}

	dispatcher, err := dispatch.New(client, cfg.Tracker.Name, logger)
	if err != nil {
		svc.Shutdown()
		return nil, fmt.Errorf("failed to create dispatcher: %w", err)
	}

	svc.driver, err = pipeline.New(transformer, dispatcher, int(cfg.Tracker.BatchSize), nil, logger)
	if err != nil {
		svc.Shutdown()
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}
	svc.driver.SetFilters(filters)

	svc.discards, err = sink.New(&cfg.Discards, logger)
	if err != nil {
		svc.Shutdown()
		return nil, fmt.Errorf("failed to create discard sink: %w", err)
	}
	if svc.discards != nil {
		if err := svc.discards.Start(context.Background()); err != nil {
			svc.Shutdown()
			return nil, fmt.Errorf("failed to start discard sink: %w", err)
		}
		svc.driver.SetDiscardSink(svc.discards.Input(), cfg.Discards.IncludeData)
	}

	logger.Info("msg", "Invocation pipeline ready",
		"component", "main",
		"tracker", cfg.Tracker.Name,
		"backend", client.Backend(),
		"batch_size", cfg.Tracker.BatchSize,
		"filters", len(cfg.Filters),
		"discard_sink", cfg.Discards.Enabled,
		"device_id_path", cfg.Paths.DeviceID,
		"sample_time_path", cfg.Paths.SampleTime)

	return svc, nil
}

// startIngest creates and starts the enabled ingest servers
func (s *Service) startIngest(cfg *config.Config) error {
	if !cfg.Ingest.HTTP.Enabled && !cfg.Ingest.TCP.Enabled {
		return fmt.Errorf("no ingest server enabled, use -event for a one-shot invocation")
	}

	authenticator, err := auth.New(&cfg.Auth, s.logger)
	if err != nil {
		return fmt.Errorf("failed to create authenticator: %w", err)
	}
	s.authenticator = authenticator

	if cfg.Ingest.HTTP.Enabled {
		s.httpServer, err = ingest.NewHTTPServer(&cfg.Ingest.HTTP, s.driver, authenticator,
			s.driver.Metrics().Handler(), s.status, s.logger)
		if err != nil {
			return fmt.Errorf("failed to create HTTP ingest server: %w", err)
		}
		if err := s.httpServer.Start(); err != nil {
			s.httpServer = nil
			return fmt.Errorf("failed to start HTTP ingest server: %w", err)
		}
	}

	if cfg.Ingest.TCP.Enabled {
		s.tcpServer, err = ingest.NewTCPServer(&cfg.Ingest.TCP, s.driver, authenticator, s.logger)
		if err != nil {
			return fmt.Errorf("failed to create TCP ingest server: %w", err)
		}
		if err := s.tcpServer.Start(); err != nil {
			s.tcpServer = nil
			return fmt.Errorf("failed to start TCP ingest server: %w", err)
		}
	}

	s.logger.Info("msg", "TrackWisp started",
		"component", "main",
		"version", version.Short(),
		"http_ingest", cfg.Ingest.HTTP.Enabled,
		"tcp_ingest", cfg.Ingest.TCP.Enabled,
		"auth", authenticator.Type())

	return nil
}

// status feeds the HTTP status endpoint
func (s *Service) status() map[string]any {
	stats := map[string]any{
		"pipeline": s.driver.GetStats(),
	}
	if s.httpServer != nil {
		stats["http_ingest"] = s.httpServer.GetStats()
	}
	if s.tcpServer != nil {
		stats["tcp_ingest"] = s.tcpServer.GetStats()
	}
	if s.discards != nil {
		stats["discard_sink"] = s.discards.GetStats()
	}
	return stats
}

// Shutdown stops ingest first so no invocation starts against a closed client
func (s *Service) Shutdown() {
	if s.httpServer != nil {
		s.httpServer.Stop()
	}
	if s.tcpServer != nil {
		s.tcpServer.Stop()
	}
	if s.authenticator != nil {
		s.authenticator.Close()
	}
	if s.discards != nil {
		s.discards.Stop()
	}
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			s.logger.Error("msg", "Failed to close tracker client",
				"component", "main",
				"error", err)
		}
	}
}
